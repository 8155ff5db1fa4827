package weavetest

import "github.com/iov-one/msigwallet/weave"

// calls counts Check and Deliver invocations of a test double.
type calls struct {
	check   int
	deliver int
}

func (c *calls) CheckCallCount() int   { return c.check }
func (c *calls) DeliverCallCount() int { return c.deliver }
func (c *calls) CallCount() int        { return c.check + c.deliver }

// write stores value under key when key is set, so that rollbacks done by
// an outer decorator can be observed in the store.
func write(db weave.KVStore, key, value []byte) {
	if key != nil {
		db.Set(key, value)
	}
}

// Handler is a mock implementation of the weave.Handler interface.
//
// Configure the results returned by Check and Deliver. Each call is
// counted. If Key is set, the handler writes Value under it before
// returning.
type Handler struct {
	calls

	CheckResult   weave.CheckResult
	CheckErr      error
	DeliverResult weave.DeliverResult
	DeliverErr    error

	Key   []byte
	Value []byte

	// Panic if set is raised on every call.
	Panic interface{}
}

var _ weave.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	h.check++
	h.act(db)
	// Copy the result so that the caller cannot modify the template.
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	h.deliver++
	h.act(db)
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) act(db weave.KVStore) {
	if h.Panic != nil {
		panic(h.Panic)
	}
	write(db, h.Key, h.Value)
}

// Decorator is a mock implementation of the weave.Decorator interface.
//
// A set CheckErr or DeliverErr is returned without calling the next
// handler. Otherwise Key is written, as by Handler, before the next
// handler runs. Every call is counted.
type Decorator struct {
	calls

	CheckErr   error
	DeliverErr error

	Key   []byte
	Value []byte
}

var _ weave.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	d.check++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	write(db, d.Key, d.Value)
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	d.deliver++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	write(db, d.Key, d.Value)
	return next.Deliver(ctx, db, tx)
}

// Decorate wraps h with the decorators. The first decorator is the
// outermost one.
func Decorate(h weave.Handler, ds ...weave.Decorator) weave.Handler {
	for i := len(ds) - 1; i >= 0; i-- {
		h = decorated{next: h, dec: ds[i]}
	}
	return h
}

type decorated struct {
	next weave.Handler
	dec  weave.Decorator
}

func (d decorated) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
