package stitch

import "sync"

// EmitFunc receives events forwarded out of the runtime.
type EmitFunc func(event string, payload any)

// eventRegistry fans events out to registered handlers and the external
// host callback. It carries its own lock because chron ticks emit from
// timer goroutines; everything else about a Runtime stays single-threaded.
type eventRegistry struct {
	mu       sync.Mutex
	nextID   int
	handlers map[string][]subscription
	external EmitFunc
}

type subscription struct {
	id int
	fn EmitFunc
}

// On registers a handler for an event. The returned token cancels the
// registration via Off.
func (rt *Runtime) On(event string, fn EmitFunc) int {
	reg := &rt.events
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.handlers == nil {
		reg.handlers = make(map[string][]subscription)
	}
	reg.nextID++
	reg.handlers[event] = append(reg.handlers[event], subscription{id: reg.nextID, fn: fn})
	return reg.nextID
}

// Off removes the handler registered under token; unknown tokens are a
// no-op.
func (rt *Runtime) Off(event string, token int) {
	reg := &rt.events
	reg.mu.Lock()
	defer reg.mu.Unlock()
	subs := reg.handlers[event]
	for i, sub := range subs {
		if sub.id == token {
			reg.handlers[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit forwards an event to every handler registered for it, then to the
// external callback if one is configured. With nobody listening it is a
// silent no-op: scripts must not assume delivery.
func (rt *Runtime) Emit(event string, payload any) {
	reg := &rt.events
	reg.mu.Lock()
	subs := append([]subscription(nil), reg.handlers[event]...)
	external := reg.external
	reg.mu.Unlock()

	for _, sub := range subs {
		sub.fn(event, payload)
	}
	if external != nil {
		external(event, payload)
	}
}
