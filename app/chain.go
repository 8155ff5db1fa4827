package app

import (
	"github.com/iov-one/msigwallet/weave"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []weave.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    utils.NewLogging(),
    utils.NewRecovery(),
    sigs.NewDecorator(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(
    router,
  )
*/
func ChainDecorators(chain ...weave.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain.
// Nil decorators are skipped.
func (d Decorators) Chain(chain ...weave.Decorator) Decorators {
	next := make([]weave.Decorator, len(d.chain), len(d.chain)+len(chain))
	copy(next, d.chain)
	for _, dec := range chain {
		if dec != nil {
			next = append(next, dec)
		}
	}
	return Decorators{chain: next}
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h weave.Handler) weave.Handler {
	// the first decorator of the chain is the outermost one
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler.
type step struct {
	d    weave.Decorator
	next weave.Handler
}

var _ weave.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
