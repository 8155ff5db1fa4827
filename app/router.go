package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

// isPath is the expected format for paths, to allow
// "multisig/submit" and "cash/send".
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]weave.Handler
}

var (
	_ weave.Registry = (*Router)(nil)
	_ weave.Handler  = (*Router)(nil)
)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]weave.Handler, 10),
	}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered or the path is not valid.
func (r *Router) Handle(path string, h weave.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no path is found,
// returns a noSuchPath Handler. This function never returns nil.
func (r *Router) handler(m weave.Msg) weave.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path.
func (r *Router) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return r.handler(msg).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path.
func (r *Router) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "no message")
	}
	return r.handler(msg).Deliver(ctx, store, tx)
}

// notFoundHandler always returns ErrNotFound for the path.
type notFoundHandler string

func (path notFoundHandler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
