package cache

import "sync"

// FlightRegistry tracks in-progress computations by key so concurrent
// requesters for the same key observe the in-progress state instead of
// triggering duplicate upstream work. Unlike a coalescing singleflight, a
// duplicate caller does not block on the result: it is told a flight is
// active and repolls. Process-local only.
type FlightRegistry struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewFlightRegistry() *FlightRegistry {
	return &FlightRegistry{inFlight: make(map[string]struct{})}
}

// Begin registers key as computing. It returns false when a flight for key is
// already active, in which case the caller must not start another.
func (r *FlightRegistry) Begin(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, active := r.inFlight[key]; active {
		return false
	}
	r.inFlight[key] = struct{}{}
	return true
}

// Done clears the registration for key. It is safe to call for a key that is
// not registered.
func (r *FlightRegistry) Done(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inFlight, key)
}

func (r *FlightRegistry) Active(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, active := r.inFlight[key]
	return active
}

func (r *FlightRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inFlight)
}
