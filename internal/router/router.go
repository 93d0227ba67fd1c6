// Package router dispatches decoded input events to registered handlers.
package router

import "github.com/opencontrol/controldeck/internal/input"

// Handler consumes one input event.
type Handler func(input.Event)

type key struct {
	id   uint8
	kind input.EventKind
}

// Router holds a registration table keyed by (input id, event kind). Each
// key maps to a sequence of handlers invoked in registration order. Not
// safe for concurrent mutation; registration happens during startup, before
// the poll loop runs.
type Router struct {
	handlers map[key][]Handler
}

// New creates an empty Router.
func New() *Router {
	return &Router{handlers: make(map[key][]Handler)}
}

// Bind registers a handler for events of the given kind from the given
// input id.
func (r *Router) Bind(id uint8, kind input.EventKind, h Handler) {
	k := key{id: id, kind: kind}
	r.handlers[k] = append(r.handlers[k], h)
}

// Dispatch invokes every handler registered for the event, synchronously
// and in registration order. Events with no handlers are dropped.
func (r *Router) Dispatch(ev input.Event) {
	for _, h := range r.handlers[key{id: ev.ID, kind: ev.Kind}] {
		h(ev)
	}
}

// Bindings reports the number of registered handlers, for startup logging.
func (r *Router) Bindings() int {
	n := 0
	for _, hs := range r.handlers {
		n += len(hs)
	}
	return n
}
