// Package event is a small in-process dispatcher. The order pipeline fires
// "order.placed" and "feedback.due" through it so side effects (mail,
// websocket pushes) stay decoupled from the services that trigger them.
package event

import (
	"sync"

	"github.com/citizenjaivik/jaivik/pkg/logger"
)

// Handler receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

func snapshot(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and returns
// immediately. A panicking listener is logged, never propagated.
func FireAsync(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h := h
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("event listener panicked", "event", event, "panic", r)
				}
			}()
			h(payload)
		}()
	}
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
