package weave

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iov-one/msigwallet/errors"
)

// Query modifiers follow the path after a '?', as in "/proposals?prefix".
const (
	// KeyQueryMod returns the single model stored under the query data.
	KeyQueryMod = ""
	// PrefixQueryMod returns every model whose key starts with the query
	// data, for example all proposals of one wallet.
	PrefixQueryMod = "prefix"
)

// Model is a key value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{
		Key:   key,
		Value: value,
	}
}

// QueryHandler is anything that can process ABCI queries
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the handlers of one extension to a router.
type QueryRegister func(QueryRouter)

// QueryRouter dispatches a query path to the handler registered under it.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 8),
	}
}

// RegisterAll registers a number of QueryRegister at once
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// Register adds a handler for the path. It panics if the path is taken or
// contains a modifier separator.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if strings.Contains(path, "?") {
		panic(fmt.Sprintf("query path with modifier: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("Re-registering route: %s", path))
	}
	r.routes[path] = h
}

// Handler returns the handler registered under the path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Route splits a full query path into the route and its modifier and
// returns the handler of the route. Unknown routes fail with ErrNotFound
// and unknown modifiers with ErrInput.
func (r QueryRouter) Route(fullPath string) (QueryHandler, string, error) {
	path, mod := fullPath, KeyQueryMod
	if i := strings.IndexByte(fullPath, '?'); i >= 0 {
		path, mod = fullPath[:i], fullPath[i+1:]
	}
	h := r.routes[path]
	if h == nil {
		return nil, "", errors.Wrapf(errors.ErrNotFound, "query path %q", path)
	}
	if mod != KeyQueryMod && mod != PrefixQueryMod {
		return nil, "", errors.Wrapf(errors.ErrInput, "query modifier %q", mod)
	}
	return h, mod, nil
}

// Paths returns the registered routes in lexical order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
