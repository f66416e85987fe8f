package rules

import "sync"

// Listener reacts to committed deltas.
type Listener func(Delta)

// TypedListener reacts to one delta type
type TypedListener struct {
	Handle   int
	Type     DeltaType
	Callback func(Delta)
}

// DeltaBus is a synchronous publish/subscribe fan-out of committed deltas
// with optional type filtering.
type DeltaBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[DeltaType][]TypedListener
	nextHandle     int
}

// NewDeltaBus constructs an empty bus
func NewDeltaBus() *DeltaBus {
	return &DeltaBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[DeltaType][]TypedListener),
	}
}

// Subscribe registers a listener for all deltas and returns a handle.
func (bus *DeltaBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a single delta type.
func (bus *DeltaBus) SubscribeTyped(t DeltaType, callback func(Delta)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[t] = append(bus.typedListeners[t], TypedListener{
		Handle:   handle,
		Type:     t,
		Callback: callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by handle, typed or not.
func (bus *DeltaBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for t, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[t] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers d to every matching listener synchronously.
func (bus *DeltaBus) Publish(d Delta) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(d)
	}
	for _, listener := range bus.typedListeners[d.Type] {
		listener.Callback(d)
	}
}

// PublishBatch publishes deltas in order
func (bus *DeltaBus) PublishBatch(deltas []Delta) {
	for _, d := range deltas {
		bus.Publish(d)
	}
}
