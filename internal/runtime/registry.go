package runtime

import (
	"sort"

	"github.com/aretw0/playgraph/pkg/domain"
)

// Registry is the immutable handler index of one play, built once and then
// only read. Handlers keep their declaration order: the play's own handlers
// first, then role handlers in inclusion order. That order decides execution
// order whenever several handlers are triggered together.
type Registry struct {
	handlers []*domain.Handler
	byName   map[string][]int
	byListen map[string][]int
}

// NewRegistry indexes the play's handlers by name and by listen topic.
func NewRegistry(play *domain.Play) *Registry {
	r := &Registry{
		handlers: make([]*domain.Handler, 0, len(play.Handlers)),
		byName:   make(map[string][]int),
		byListen: make(map[string][]int),
	}
	for i := range play.Handlers {
		h := &play.Handlers[i]
		r.handlers = append(r.handlers, h)
		r.byName[h.Name] = append(r.byName[h.Name], i)
		for _, topic := range h.Listen {
			r.byListen[topic] = append(r.byListen[topic], i)
		}
	}
	return r
}

// Resolve returns every handler addressable by name: the handler(s) declared
// with that exact name plus all handlers listening on it as a topic, in
// declaration order and without duplicates. An unknown name resolves to an
// empty list; notifying a nonexistent handler is a user mistake reported by
// the surrounding tool, not a structural fault here.
func (r *Registry) Resolve(name string) []*domain.Handler {
	idxs := make([]int, 0, len(r.byName[name])+len(r.byListen[name]))
	idxs = append(idxs, r.byName[name]...)
	idxs = append(idxs, r.byListen[name]...)
	sort.Ints(idxs)

	out := make([]*domain.Handler, 0, len(idxs))
	prev := -1
	for _, i := range idxs {
		if i == prev {
			continue // reachable via both name and listen
		}
		prev = i
		out = append(out, r.handlers[i])
	}
	return out
}

// Handlers returns the indexed handlers in declaration order.
func (r *Registry) Handlers() []*domain.Handler {
	return r.handlers
}

// Len returns the number of indexed handlers.
func (r *Registry) Len() int {
	return len(r.handlers)
}
