package store

import (
	"sync"

	"github.com/vango-go/routesync/pkg/routetable"
)

// ChangeEvent is the default event emitted when a store's data changes.
const ChangeEvent = "change"

// Event is delivered to listeners.
type Event struct {
	// Name is the emitted event name.
	Name string

	// Routes is the route table carried by the event.
	Routes routetable.Table
}

// Listener receives store events. Implementations must be comparable
// (typically pointers) so they can be removed again.
type Listener interface {
	HandleEvent(Event)
}

// Store is an observable named data holder.
type Store interface {
	// Name is the name the store is registered under.
	Name() string

	// On subscribes l to event.
	On(event string, l Listener)

	// RemoveListener unsubscribes l from event. Unknown listeners are ignored.
	RemoveListener(event string, l Listener)
}

// ActionHandler is implemented by stores that react to dispatched actions.
type ActionHandler interface {
	// HandleAction applies the action. It reports false if the store does
	// not handle that action name.
	HandleAction(action string, payload any) (bool, error)
}

// Emitter keeps listeners per event name. The zero value is ready to use.
type Emitter struct {
	mu        sync.Mutex
	listeners map[string][]Listener
}

// On subscribes l to event. A listener already subscribed is not added twice.
func (e *Emitter) On(event string, l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, existing := range e.listeners[event] {
		if existing == l {
			return
		}
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]Listener)
	}
	e.listeners[event] = append(e.listeners[event], l)
}

// RemoveListener unsubscribes l from event.
func (e *Emitter) RemoveListener(event string, l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()

	list := e.listeners[event]
	for i, existing := range list {
		if existing == l {
			e.listeners[event] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(e.listeners[event]) == 0 {
		delete(e.listeners, event)
	}
}

// ListenerCount returns how many listeners event has.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[event])
}

// Emit delivers ev to the listeners of ev.Name. The listener list is
// snapshotted first, so listeners may subscribe or unsubscribe while handling.
func (e *Emitter) Emit(ev Event) {
	e.mu.Lock()
	snapshot := append([]Listener(nil), e.listeners[ev.Name]...)
	e.mu.Unlock()

	for _, l := range snapshot {
		l.HandleEvent(ev)
	}
}

// ListenerFunc adapts a function to a Listener. Always use it through a
// pointer (see NewListener) so it stays comparable.
type ListenerFunc struct {
	fn func(Event)
}

// NewListener wraps fn in a Listener.
func NewListener(fn func(Event)) *ListenerFunc {
	return &ListenerFunc{fn: fn}
}

// HandleEvent implements Listener.
func (f *ListenerFunc) HandleEvent(ev Event) {
	f.fn(ev)
}
