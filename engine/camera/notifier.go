package camera

import "sync"

// CallbackHandle allows a registered observer callback to be removed.
// Calling Remove more than once is safe.
type CallbackHandle struct {
	once   sync.Once
	remove func()
}

// Remove unregisters the callback associated with this handle.
func (h *CallbackHandle) Remove() {
	if h == nil || h.remove == nil {
		return
	}
	h.once.Do(h.remove)
}

// handlerRegistry is a small ordered collection of callbacks for one
// notification channel. Registration returns a handle for removal.
// Not safe for concurrent use on its own; callers synchronize.
type handlerRegistry struct {
	nextID   uint64
	order    []uint64
	handlers map[uint64]func()
}

func newHandlerRegistry() *handlerRegistry {
	return &handlerRegistry{handlers: make(map[uint64]func())}
}

func (r *handlerRegistry) add(fn func()) uint64 {
	r.nextID++
	id := r.nextID
	r.order = append(r.order, id)
	r.handlers[id] = fn
	return id
}

func (r *handlerRegistry) remove(id uint64) {
	if _, ok := r.handlers[id]; !ok {
		return
	}
	delete(r.handlers, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// snapshot returns the registered callbacks in registration order.
// Callers invoke them outside any lock.
func (r *handlerRegistry) snapshot() []func() {
	out := make([]func(), 0, len(r.order))
	for _, id := range r.order {
		if fn, ok := r.handlers[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func (r *handlerRegistry) clear() {
	r.order = nil
	r.handlers = make(map[uint64]func())
}
