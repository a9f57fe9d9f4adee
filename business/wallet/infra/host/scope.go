// Package host implements wallet discovery and submission against the
// embedding host runtime.
package host

import (
	"github.com/ditsyandrea22/farcaster-passport-builder-sub000/business/wallet/domain"
)

// WalletHandle is the wallet shape a host may expose. Fields are checked
// structurally, never assumed present.
type WalletHandle struct {
	Address string `json:"address"`
	ChainID string `json:"chainId"`
}

// Usable reports whether the handle carries a well-formed address.
func (w *WalletHandle) Usable() bool {
	return w != nil && domain.IsValidAddress(w.Address)
}

// SDKContext is the context object nested inside the host SDK scope.
type SDKContext struct {
	Wallet *WalletHandle `json:"wallet,omitempty"`
}

// SDKScope is the host-SDK-scoped surface.
type SDKScope struct {
	Wallet  *WalletHandle `json:"wallet,omitempty"`
	Context *SDKContext   `json:"context,omitempty"`
	Actions []string      `json:"actions,omitempty"`
}

// FrameScope is the host-provided frame surface.
type FrameScope struct {
	Wallet *WalletHandle `json:"wallet,omitempty"`
}

// MiniAppScope is the generic mini-app surface.
type MiniAppScope struct {
	Wallet *WalletHandle `json:"wallet,omitempty"`
}

// Scope is a snapshot of the host runtime's global surface. Every field
// is optional; which ones are populated depends on the host version.
type Scope struct {
	Wallet   *WalletHandle `json:"wallet,omitempty"`
	SDK      *SDKScope     `json:"sdk,omitempty"`
	Frame    *FrameScope   `json:"frame,omitempty"`
	MiniApp  *MiniAppScope `json:"miniApp,omitempty"`
	Ethereum *WalletHandle `json:"ethereum,omitempty"`
	Embedded bool          `json:"embedded"`
}

// Candidate is one place a wallet handle may be exposed, with a
// reliability weight used for ordering diagnostics.
type Candidate struct {
	Name   string
	Method domain.ConnectionMethod
	Weight int
	lookup func(*Scope) *WalletHandle
}

// Lookup returns the handle at this candidate's exposure point, or nil.
func (c Candidate) Lookup(s *Scope) *WalletHandle {
	if s == nil {
		return nil
	}
	return c.lookup(s)
}

// candidates enumerates exposure points in descending order of
// trustworthiness. The global injected provider is consulted only when
// the page is itself embedded, so a standalone run cannot pick up an
// unrelated provider.
var candidates = []Candidate{
	{
		Name:   "direct wallet",
		Method: domain.MethodDirect,
		Weight: 100,
		lookup: func(s *Scope) *WalletHandle { return s.Wallet },
	},
	{
		Name:   "sdk wallet",
		Method: domain.MethodHostSDK,
		Weight: 90,
		lookup: func(s *Scope) *WalletHandle {
			if s.SDK == nil {
				return nil
			}
			return s.SDK.Wallet
		},
	},
	{
		Name:   "frame wallet",
		Method: domain.MethodHostContext,
		Weight: 80,
		lookup: func(s *Scope) *WalletHandle {
			if s.Frame == nil {
				return nil
			}
			return s.Frame.Wallet
		},
	},
	{
		Name:   "sdk context wallet",
		Method: domain.MethodHostSDK,
		Weight: 70,
		lookup: func(s *Scope) *WalletHandle {
			if s.SDK == nil || s.SDK.Context == nil {
				return nil
			}
			return s.SDK.Context.Wallet
		},
	},
	{
		Name:   "mini-app wallet",
		Method: domain.MethodHostContext,
		Weight: 60,
		lookup: func(s *Scope) *WalletHandle {
			if s.MiniApp == nil {
				return nil
			}
			return s.MiniApp.Wallet
		},
	},
	{
		Name:   "injected provider",
		Method: domain.MethodWindowFallback,
		Weight: 10,
		lookup: func(s *Scope) *WalletHandle {
			if !s.Embedded {
				return nil
			}
			return s.Ethereum
		},
	},
}

// Candidates returns the ordered exposure point list.
func Candidates() []Candidate {
	return candidates
}
