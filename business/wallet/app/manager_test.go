package app

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/domain"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/apperror"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/asset"
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/internal/eventbus"
)

// mockLogger satisfies logger.LoggerInterface for tests.
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)  {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any) {}

func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

// fakeDiscovery replays a scripted sequence of full probe outcomes; an
// empty script means exhaustion. DetectOnce always answers from the
// once/onceOK pair.
type fakeDiscovery struct {
	mu          sync.Mutex
	script      []*domain.DiscoveredWallet
	once        *domain.DiscoveredWallet
	onceOK      bool
	attempts    int
	resets      int
	detectCalls int
	onceCalls   int
}

func (f *fakeDiscovery) Detect(ctx context.Context) (*domain.DiscoveredWallet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detectCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(f.script) == 0 {
		return nil, nil
	}
	dw := f.script[0]
	f.script = f.script[1:]
	return dw, nil
}

func (f *fakeDiscovery) DetectOnce(ctx context.Context) (*domain.DiscoveredWallet, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onceCalls++
	return f.once, f.onceOK
}

func (f *fakeDiscovery) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func (f *fakeDiscovery) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	f.attempts = 0
}

func (f *fakeDiscovery) stats() (detect, once, resets int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detectCalls, f.onceCalls, f.resets
}

type fakeSubmitter struct {
	mu     sync.Mutex
	result domain.TransactionResult
	err    error
	calls  int
}

func (f *fakeSubmitter) Submit(ctx context.Context, req domain.TransactionRequest) (domain.TransactionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return domain.TransactionResult{}, f.err
	}
	return f.result, nil
}

func (f *fakeSubmitter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeMonitor records watched hashes; tests fire the terminal callback
// themselves. A hash can only be watched once.
type fakeMonitor struct {
	mu      sync.Mutex
	watched map[string]func(context.Context, domain.TransactionResult)
}

func (f *fakeMonitor) Watch(ctx context.Context, result domain.TransactionResult, onTerminal func(ctx context.Context, result domain.TransactionResult)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watched == nil {
		f.watched = make(map[string]func(context.Context, domain.TransactionResult))
	}
	if _, ok := f.watched[result.Hash]; ok {
		return false
	}
	f.watched[result.Hash] = onTerminal
	return true
}

func (f *fakeMonitor) fireTerminal(ctx context.Context, hash string, status domain.TxStatus) {
	f.mu.Lock()
	fn := f.watched[hash]
	delete(f.watched, hash)
	f.mu.Unlock()
	if fn != nil {
		fn(ctx, domain.TransactionResult{Hash: hash, Status: status, Confirmations: 1, Timestamp: time.Now()})
	}
}

func (f *fakeMonitor) watching(hash string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.watched[hash]
	return ok
}

// fakeBalances replays a balance script; the last entry repeats.
type fakeBalances struct {
	mu          sync.Mutex
	script      []string
	err         error
	calls       int
	invalidated []string
}

func (f *fakeBalances) Balance(ctx context.Context, address string, native *asset.Asset) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if len(f.script) == 0 {
		return "0 ETH", nil
	}
	b := f.script[0]
	if len(f.script) > 1 {
		f.script = f.script[1:]
	}
	return b, nil
}

func (f *fakeBalances) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeBalances) Invalidate(ctx context.Context, address string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, address)
}

type fakeGateway struct {
	mu         sync.Mutex
	readyCalls int
	requestErr error
	requests   int
}

func (f *fakeGateway) SignalReady(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readyCalls++
}

func (f *fakeGateway) RequestConnection(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++
	return f.requestErr
}

// eventRecorder collects bus payloads by event name.
type eventRecorder struct {
	mu     sync.Mutex
	byName map[string][]any
}

func recordEvents(bus *eventbus.Bus, names ...string) *eventRecorder {
	r := &eventRecorder{byName: make(map[string][]any)}
	for _, name := range names {
		n := name
		bus.Subscribe(n, func(ctx context.Context, payload any) {
			r.mu.Lock()
			r.byName[n] = append(r.byName[n], payload)
			r.mu.Unlock()
		})
	}
	return r
}

func (r *eventRecorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName[name])
}

func (r *eventRecorder) last(name string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.byName[name]
	if len(events) == 0 {
		return nil
	}
	return events[len(events)-1]
}

func (r *eventRecorder) await(t *testing.T, name string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.count(name) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d %q events, got %d", want, name, r.count(name))
}

func testAddress(c byte) string {
	return "0x" + strings.Repeat(string(c), 40)
}

func discovered(addr string) *domain.DiscoveredWallet {
	return &domain.DiscoveredWallet{
		Address: addr,
		ChainID: "8453",
		Method:  domain.MethodHostSDK,
		Source:  "host.sdk.wallet",
	}
}

type testHarness struct {
	manager   *Manager
	bus       *eventbus.Bus
	discovery *fakeDiscovery
	submitter *fakeSubmitter
	monitor   *fakeMonitor
	balances  *fakeBalances
	gateway   *fakeGateway
}

func newTestHarness() *testHarness {
	log := &mockLogger{}
	h := &testHarness{
		bus:       eventbus.New(log),
		discovery: &fakeDiscovery{},
		submitter: &fakeSubmitter{},
		monitor:   &fakeMonitor{},
		balances:  &fakeBalances{script: []string{"1 ETH"}},
		gateway:   &fakeGateway{},
	}
	h.manager = NewManager(
		h.discovery,
		h.submitter,
		h.monitor,
		h.balances,
		h.gateway,
		h.bus,
		ManagerConfig{BalancePollInterval: 10 * time.Millisecond},
		log,
	)
	return h
}

func TestManager_InitializeConnects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	rec := recordEvents(h.bus, domain.EventWalletConnected, domain.EventBalanceUpdated)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	state := h.manager.GetCurrentState()
	if !state.Connected {
		t.Fatal("expected connected state")
	}
	if state.Address != testAddress('a') {
		t.Errorf("address = %q", state.Address)
	}
	if state.NetworkName != "Base" {
		t.Errorf("network = %q, want Base", state.NetworkName)
	}
	if got := rec.count(domain.EventWalletConnected); got != 1 {
		t.Errorf("walletConnected count = %d, want 1", got)
	}

	rec.await(t, domain.EventBalanceUpdated, 1)
	if state := h.manager.GetCurrentState(); state.Balance != "1 ETH" {
		t.Errorf("balance = %q, want 1 ETH", state.Balance)
	}
}

func TestManager_InitializeCoalesces(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}

	detect, _, _ := h.discovery.stats()
	if detect != 1 {
		t.Errorf("detect runs = %d, want 1", detect)
	}
	if h.gateway.readyCalls != 1 {
		t.Errorf("ready handshakes = %d, want 1", h.gateway.readyCalls)
	}
}

func TestManager_ExhaustionIsTerminalUntilRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	rec := recordEvents(h.bus, domain.EventWalletConnected, domain.EventWalletDisconnected)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if h.manager.GetCurrentState().Connected {
		t.Fatal("expected disconnected state after exhaustion")
	}
	// Never connected: losing nothing announces nothing.
	if got := rec.count(domain.EventWalletDisconnected); got != 0 {
		t.Errorf("walletDisconnected count = %d, want 0", got)
	}

	detectBefore, _, _ := h.discovery.stats()

	h.discovery.mu.Lock()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('b'))}
	h.discovery.mu.Unlock()

	state := h.manager.RetryDetection(ctx)
	if !state.Connected || state.Address != testAddress('b') {
		t.Fatalf("state after retry = %+v", state)
	}
	detect, _, resets := h.discovery.stats()
	if resets != 1 {
		t.Errorf("resets = %d, want 1", resets)
	}
	if detect != detectBefore+1 {
		t.Errorf("detect runs = %d, want %d", detect, detectBefore+1)
	}
	if got := rec.count(domain.EventWalletConnected); got != 1 {
		t.Errorf("walletConnected count = %d, want 1", got)
	}
}

func TestManager_RetryDetectionLossDisconnectsAndStopsPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	rec := recordEvents(h.bus, domain.EventWalletDisconnected, domain.EventBalanceUpdated)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	rec.await(t, domain.EventBalanceUpdated, 1)

	// Discovery script is empty: the retry exhausts and loses the wallet.
	state := h.manager.RetryDetection(ctx)
	if state.Connected {
		t.Fatalf("state after exhausted retry = %+v, want disconnected", state)
	}
	if got := rec.count(domain.EventWalletDisconnected); got != 1 {
		t.Errorf("walletDisconnected count = %d, want 1", got)
	}

	// A tick already in flight when the poller is cancelled may finish
	// one last refresh; let it settle before snapshotting.
	time.Sleep(20 * time.Millisecond)
	callsAfter := h.balances.callCount()
	time.Sleep(60 * time.Millisecond)
	if got := h.balances.callCount(); got != callsAfter {
		t.Errorf("balance provider still polled after disconnect: %d -> %d calls", callsAfter, got)
	}
}

func TestManager_RetryDetectionWhileConnected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	rec := recordEvents(h.bus,
		domain.EventWalletConnected,
		domain.EventWalletAddressChanged,
		domain.EventWalletDisconnected,
	)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	// Same address rediscovered: no event, connection never changed.
	h.discovery.mu.Lock()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	h.discovery.mu.Unlock()

	state := h.manager.RetryDetection(ctx)
	if !state.Connected || state.Address != testAddress('a') {
		t.Fatalf("state after retry = %+v", state)
	}
	if got := rec.count(domain.EventWalletConnected); got != 1 {
		t.Errorf("walletConnected count = %d, want 1", got)
	}
	if got := rec.count(domain.EventWalletAddressChanged); got != 0 {
		t.Errorf("walletAddressChanged count = %d, want 0", got)
	}

	// New address rediscovered: address change, not a second connect.
	h.discovery.mu.Lock()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('b'))}
	h.discovery.mu.Unlock()

	state = h.manager.RetryDetection(ctx)
	if state.Address != testAddress('b') {
		t.Fatalf("address after retry = %s, want %s", state.Address, testAddress('b'))
	}
	if got := rec.count(domain.EventWalletConnected); got != 1 {
		t.Errorf("walletConnected count = %d, want 1", got)
	}
	if got := rec.count(domain.EventWalletAddressChanged); got != 1 {
		t.Fatalf("walletAddressChanged count = %d, want 1", got)
	}
	change := rec.last(domain.EventWalletAddressChanged).(domain.AddressChange)
	if change.Previous != testAddress('a') || change.Current != testAddress('b') {
		t.Errorf("address change = %+v", change)
	}
}

func TestManager_DetectWalletIdempotentWhileConnected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	dw := discovered(testAddress('a'))
	h.discovery.script = []*domain.DiscoveredWallet{dw}
	h.discovery.once = dw
	h.discovery.onceOK = true
	rec := recordEvents(h.bus, domain.EventWalletConnected, domain.EventWalletAddressChanged)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	first := h.manager.DetectWallet(ctx)
	second := h.manager.DetectWallet(ctx)

	if first.Address != second.Address || !second.Connected {
		t.Fatalf("states diverged: %+v vs %+v", first, second)
	}
	if got := rec.count(domain.EventWalletConnected); got != 1 {
		t.Errorf("walletConnected count = %d, want 1", got)
	}
	if got := rec.count(domain.EventWalletAddressChanged); got != 0 {
		t.Errorf("walletAddressChanged count = %d, want 0", got)
	}
	detect, once, _ := h.discovery.stats()
	if detect != 1 {
		t.Errorf("full detect runs = %d, want 1", detect)
	}
	if once != 2 {
		t.Errorf("single-pass checks = %d, want 2", once)
	}
}

func TestManager_AddressChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	rec := recordEvents(h.bus, domain.EventWalletConnected, domain.EventWalletAddressChanged)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	h.discovery.mu.Lock()
	h.discovery.once = discovered(testAddress('b'))
	h.discovery.onceOK = true
	h.discovery.mu.Unlock()

	state := h.manager.DetectWallet(ctx)
	if state.Address != testAddress('b') {
		t.Fatalf("address = %q, want %q", state.Address, testAddress('b'))
	}
	if got := rec.count(domain.EventWalletAddressChanged); got != 1 {
		t.Fatalf("walletAddressChanged count = %d, want 1", got)
	}
	change := rec.last(domain.EventWalletAddressChanged).(domain.AddressChange)
	if change.Previous != testAddress('a') || change.Current != testAddress('b') {
		t.Errorf("change = %+v", change)
	}
	if got := rec.count(domain.EventWalletConnected); got != 1 {
		t.Errorf("walletConnected count = %d, want 1", got)
	}
}

func TestManager_WalletLostWhileConnected(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	rec := recordEvents(h.bus, domain.EventWalletDisconnected)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	// DetectOnce now finds nothing.
	state := h.manager.DetectWallet(ctx)
	if state.Connected {
		t.Fatal("expected disconnected state")
	}
	if got := rec.count(domain.EventWalletDisconnected); got != 1 {
		t.Errorf("walletDisconnected count = %d, want 1", got)
	}
}

func TestManager_SendTransactionRequiresConnection(t *testing.T) {
	h := newTestHarness()

	_, err := h.manager.SendTransaction(context.Background(), domain.TransactionRequest{
		To:    testAddress('b'),
		Value: "1",
	})
	if !apperror.IsCode(err, apperror.CodeWalletNotConnected) {
		t.Fatalf("error = %v, want WALLET_NOT_CONNECTED", err)
	}
	if h.submitter.callCount() != 0 {
		t.Error("submitter called while disconnected")
	}
}

func TestManager_SendTransactionLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	h.submitter.result = domain.NewPendingResult("0xabc")
	rec := recordEvents(h.bus,
		domain.EventTransactionSent,
		domain.EventTransactionConfirmed,
		domain.EventTransactionTimeout,
	)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	result, err := h.manager.SendTransaction(ctx, domain.TransactionRequest{
		To:    testAddress('b'),
		Value: "1000000000000000000",
	})
	if err != nil {
		t.Fatalf("SendTransaction: %v", err)
	}
	if result.Status != domain.TxPending {
		t.Errorf("status = %q, want pending", result.Status)
	}
	if got := rec.count(domain.EventTransactionSent); got != 1 {
		t.Fatalf("transactionSent count = %d, want 1", got)
	}
	if !h.monitor.watching("0xabc") {
		t.Fatal("hash not handed to monitor")
	}

	h.monitor.fireTerminal(ctx, "0xabc", domain.TxSuccess)

	if got := rec.count(domain.EventTransactionConfirmed); got != 1 {
		t.Errorf("transactionConfirmed count = %d, want 1", got)
	}
	if got := rec.count(domain.EventTransactionTimeout); got != 0 {
		t.Errorf("transactionTimeout count = %d, want 0", got)
	}
	final := rec.last(domain.EventTransactionConfirmed).(domain.TransactionResult)
	if final.Status != domain.TxSuccess {
		t.Errorf("final status = %q, want success", final.Status)
	}
}

func TestManager_SendTransactionTimeoutEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	h.submitter.result = domain.NewPendingResult("0xdef")
	rec := recordEvents(h.bus, domain.EventTransactionConfirmed, domain.EventTransactionTimeout)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if _, err := h.manager.SendTransaction(ctx, domain.TransactionRequest{To: testAddress('b')}); err != nil {
		t.Fatalf("SendTransaction: %v", err)
	}

	h.monitor.fireTerminal(ctx, "0xdef", domain.TxTimedOut)

	if got := rec.count(domain.EventTransactionTimeout); got != 1 {
		t.Errorf("transactionTimeout count = %d, want 1", got)
	}
	if got := rec.count(domain.EventTransactionConfirmed); got != 0 {
		t.Errorf("transactionConfirmed count = %d, want 0", got)
	}
}

func TestManager_SendTransactionFailurePublishesWalletError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	h.submitter.err = apperror.New(apperror.CodeUserRejected)
	rec := recordEvents(h.bus, domain.EventTransactionSent, domain.EventWalletError)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	_, err := h.manager.SendTransaction(ctx, domain.TransactionRequest{To: testAddress('b')})
	if !apperror.IsCode(err, apperror.CodeUserRejected) {
		t.Fatalf("error = %v, want USER_REJECTED", err)
	}
	if got := rec.count(domain.EventTransactionSent); got != 0 {
		t.Errorf("transactionSent count = %d, want 0", got)
	}
	if got := rec.count(domain.EventWalletError); got != 1 {
		t.Fatalf("walletError count = %d, want 1", got)
	}
	we := rec.last(domain.EventWalletError).(domain.WalletError)
	if we.Code != string(apperror.CodeUserRejected) {
		t.Errorf("error code = %q", we.Code)
	}
}

func TestManager_RequestConnection(t *testing.T) {
	h := newTestHarness()
	rec := recordEvents(h.bus, domain.EventConnectionRequested)

	if err := h.manager.RequestConnection(context.Background()); err != nil {
		t.Fatalf("RequestConnection: %v", err)
	}
	if got := rec.count(domain.EventConnectionRequested); got != 1 {
		t.Errorf("connectionRequested count = %d, want 1", got)
	}

	h.gateway.requestErr = apperror.New(apperror.CodeNoConnectionMethod)
	err := h.manager.RequestConnection(context.Background())
	if !apperror.IsCode(err, apperror.CodeNoConnectionMethod) {
		t.Fatalf("error = %v, want NO_CONNECTION_METHOD_AVAILABLE", err)
	}
	if got := rec.count(domain.EventConnectionRequested); got != 1 {
		t.Errorf("connectionRequested count after failure = %d, want 1", got)
	}
}

func TestManager_GetCurrentStateReturnsIndependentSnapshots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	first := h.manager.GetCurrentState()
	second := h.manager.GetCurrentState()
	if first != second {
		t.Fatalf("snapshots differ: %+v vs %+v", first, second)
	}

	first.Address = "tampered"
	first.Connected = false
	if got := h.manager.GetCurrentState(); got.Address != testAddress('a') || !got.Connected {
		t.Errorf("manager state mutated through a returned snapshot: %+v", got)
	}
}

func TestManager_Reset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	rec := recordEvents(h.bus, domain.EventWalletDisconnected)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	h.manager.Reset(ctx)

	state := h.manager.GetCurrentState()
	if state.Connected || state.Address != "" || state.Method != domain.MethodNone {
		t.Errorf("state after reset = %+v", state)
	}
	if got := rec.count(domain.EventWalletDisconnected); got != 1 {
		t.Errorf("walletDisconnected count = %d, want 1", got)
	}
	_, _, resets := h.discovery.stats()
	if resets != 1 {
		t.Errorf("discovery resets = %d, want 1", resets)
	}
}

func TestManager_BalancePolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	h.balances.script = []string{"1 ETH", "2 ETH"}
	rec := recordEvents(h.bus, domain.EventBalanceUpdated)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	rec.await(t, domain.EventBalanceUpdated, 2)

	update := rec.last(domain.EventBalanceUpdated).(domain.BalanceUpdate)
	if update.Balance != "2 ETH" || update.Address != testAddress('a') {
		t.Errorf("update = %+v", update)
	}
	if state := h.manager.GetCurrentState(); state.Balance != "2 ETH" {
		t.Errorf("state balance = %q, want 2 ETH", state.Balance)
	}
}

func TestManager_BalanceErrorEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newTestHarness()
	h.discovery.script = []*domain.DiscoveredWallet{discovered(testAddress('a'))}
	h.balances.err = apperror.New(apperror.CodeBalanceFetchFailed)
	rec := recordEvents(h.bus, domain.EventBalanceError, domain.EventBalanceUpdated)

	if err := h.manager.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	rec.await(t, domain.EventBalanceError, 1)

	we := rec.last(domain.EventBalanceError).(domain.WalletError)
	if we.Code != string(apperror.CodeBalanceFetchFailed) {
		t.Errorf("error code = %q", we.Code)
	}
	if got := rec.count(domain.EventBalanceUpdated); got != 0 {
		t.Errorf("balanceUpdated count = %d, want 0", got)
	}
}
