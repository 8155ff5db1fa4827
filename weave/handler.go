package weave

// Handler processes the messages registered under one path, for example
// "multisig/create" or "cash/send". Check runs in the mempool and must not
// have side effects that outlive the call. Deliver runs in a block.
type Handler interface {
	Checker
	Deliverer
}

// Checker verifies a transaction. Decorators receive the next Checker only,
// so that a Check path can never reach Deliver.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction. A wallet executor dispatches proposal
// payloads through one.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around a Handler. Authentication, recovery, logging and
// savepoints are decorators.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is the setup side of a router. Extensions register their
// handlers with it.
type Registry interface {
	Handle(path string, h Handler)
}
