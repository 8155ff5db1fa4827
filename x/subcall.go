package x

import (
	"context"

	"github.com/iov-one/msigwallet/weave"
)

type contextKey int // local to the x module

const (
	contextKeySubcall contextKey = iota
)

// WithSubcall returns a context for a message dispatched on behalf of the
// given condition, usually a contract account. Signature based
// authenticators report nothing inside such a context, so that the
// original transaction signers cannot act through the dispatched message.
func WithSubcall(ctx weave.Context, cond weave.Condition) weave.Context {
	return context.WithValue(ctx, contextKeySubcall, cond)
}

// Subcaller returns the condition the current message is dispatched for.
func Subcaller(ctx weave.Context) (weave.Condition, bool) {
	cond, ok := ctx.Value(contextKeySubcall).(weave.Condition)
	return cond, ok
}

// InSubcall returns true if the current message is dispatched on behalf of
// a contract account.
func InSubcall(ctx weave.Context) bool {
	_, ok := Subcaller(ctx)
	return ok
}

// SubcallAuth authenticates the condition a message is dispatched for.
type SubcallAuth struct{}

var _ Authenticator = SubcallAuth{}

// GetConditions returns the dispatching condition, if any.
func (SubcallAuth) GetConditions(ctx weave.Context) []weave.Condition {
	cond, ok := Subcaller(ctx)
	if !ok {
		return nil
	}
	return []weave.Condition{cond}
}

// HasAddress returns true if the address belongs to the dispatching
// condition.
func (SubcallAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	cond, ok := Subcaller(ctx)
	if !ok {
		return false
	}
	return cond.Address().Equals(addr)
}
