package sigs

import (
	"context"

	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/x"
)

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx weave.Context, signers []weave.Condition) weave.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate gets/sets permissions on the given context key
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// Messages dispatched on behalf of a contract are not signed by anyone, so
// nothing is returned inside a subcall.
func (a Authenticate) GetConditions(ctx weave.Context) []weave.Condition {
	if x.InSubcall(ctx) {
		return nil
	}
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]weave.Condition)
	return val
}

// HasAddress returns true if the given address signed the current Context.
func (a Authenticate) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
