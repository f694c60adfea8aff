package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different paths and then
// direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]crowdvest.Handler
}

var _ crowdvest.Registry = (*Router)(nil)
var _ crowdvest.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]crowdvest.Handler, 10),
	}
}

// Handle adds a new Handler for the given path. This function panics if a
// handler for given path is already registered.
func (r *Router) Handle(path string, h crowdvest.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this path. If no handler is
// found, an error is returned.
func (r *Router) handler(tx crowdvest.Tx) (crowdvest.Handler, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load message")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "transaction without a message")
	}
	path := msg.Path()
	if h, ok := r.routes[path]; ok {
		return h, nil
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx crowdvest.Context, store crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.CheckResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx crowdvest.Context, store crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.DeliverResult, error) {
	h, err := r.handler(tx)
	if err != nil {
		return nil, err
	}
	return h.Deliver(ctx, store, tx)
}
