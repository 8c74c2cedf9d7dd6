package util

import "sync"

// SigHandler receives the emitting object plus any extra parameters.
type SigHandler func(sender any, params ...any)

// SignalHub is a minimal in-process publish/subscribe hub used to decouple
// model mutations from their side effects (listeners).
type SignalHub struct {
	mu       sync.RWMutex
	handlers map[string][]SigHandler
}

var sigHub = &SignalHub{handlers: make(map[string][]SigHandler)}

// Sig returns the process-wide signal hub.
func Sig() *SignalHub {
	return sigHub
}

func (h *SignalHub) Connect(name string, fn SigHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[name] = append(h.handlers[name], fn)
}

// Emit calls every handler connected to name, synchronously and in
// registration order. Handlers that need to do slow work should spawn
// their own goroutine.
func (h *SignalHub) Emit(name string, sender any, params ...any) {
	h.mu.RLock()
	handlers := h.handlers[name]
	h.mu.RUnlock()
	for _, fn := range handlers {
		fn(sender, params...)
	}
}
