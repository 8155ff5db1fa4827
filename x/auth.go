package x

import (
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding x/sigs for all extensions.
//
// Inside a subcall (see WithSubcall) only the dispatching condition may be
// reported. Signature based implementations must report nothing there.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled,
	// you may want GetAddresses helper
	GetConditions(weave.Context) []weave.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(weave.Context, weave.Address) bool
}

// MultiAuth asks a list of Authenticators in order.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator. The application
// chains the signature authenticator with SubcallAuth, so that a wallet
// dispatched message is authorized by the wallet condition alone.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetConditions returns the conditions of all Authenticators in order.
// A condition reported by more than one of them is listed once.
func (m MultiAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var res []weave.Condition
	seen := make(map[string]struct{})
	for _, impl := range m.impls {
		for _, c := range impl.GetConditions(ctx) {
			key := string(c.Address())
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			res = append(res, c)
		}
	}
	return res
}

// HasAddress returns true if any Authenticator knows the address.
func (m MultiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// GetAddresses returns the addresses of all authenticated conditions.
func GetAddresses(ctx weave.Context, auth Authenticator) []weave.Address {
	conds := auth.GetConditions(ctx)
	addrs := make([]weave.Address, len(conds))
	for i, c := range conds {
		addrs[i] = c.Address()
	}
	return addrs
}

// MainSigner returns the first authenticated condition, or nil. In a
// subcall this is the dispatching condition.
func MainSigner(ctx weave.Context, auth Authenticator) weave.Condition {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil
	}
	return conds[0]
}

// HasAllAddresses returns true if every address in required is
// authenticated.
func HasAllAddresses(ctx weave.Context, auth Authenticator, required []weave.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}

// Actor returns the address acting in the current message. A non empty
// sender must be authenticated. Without a sender the main signer acts.
func Actor(ctx weave.Context, auth Authenticator, sender weave.Address) (weave.Address, error) {
	if len(sender) != 0 {
		if !auth.HasAddress(ctx, sender) {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "sender %s", sender)
		}
		return sender, nil
	}
	signer := MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return signer.Address(), nil
}
