package event

import "slices"

// Handler receives events broadcast on the channels it registered for.
type Handler interface {
	AcceptEvent(e Event)
}

type route struct {
	category    Category
	subcategory Subcategory
}

// Bus dispatches events to handlers registered per category and subcategory.
//
//   - Single-threaded: owned by the session loop, not safe for concurrent use
//   - Handlers run synchronously in registration order
//   - Handlers may add or remove registrations while being dispatched to
type Bus struct {
	handlers map[route][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[route][]Handler)}
}

// AddHandler registers h once per route; repeated registration is ignored.
func (b *Bus) AddHandler(category Category, subcategory Subcategory, h Handler) {
	r := route{category, subcategory}
	if slices.Contains(b.handlers[r], h) {
		return
	}
	b.handlers[r] = append(b.handlers[r], h)
}

func (b *Bus) RemoveHandler(category Category, subcategory Subcategory, h Handler) {
	r := route{category, subcategory}
	handlers := b.handlers[r]
	i := slices.Index(handlers, h)
	if i < 0 {
		return
	}
	// copy so a dispatch already iterating the old slice is unaffected
	handlers = slices.Delete(slices.Clone(handlers), i, i+1)
	if len(handlers) == 0 {
		delete(b.handlers, r)
		return
	}
	b.handlers[r] = handlers
}

// Broadcast delivers e to every handler registered for the route.
func (b *Bus) Broadcast(category Category, subcategory Subcategory, e Event) {
	for _, h := range b.handlers[route{category, subcategory}] {
		h.AcceptEvent(e)
	}
}

func (b *Bus) HandlerCount(category Category, subcategory Subcategory) int {
	return len(b.handlers[route{category, subcategory}])
}
