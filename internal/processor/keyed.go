package processor

import "sync"

// keyedMutex serializes processing per customer phone number. Webhook
// deliveries for different customers run concurrently, but two events for the
// same number must apply in arrival order or a stage-2 transcript could land
// before its stage-1 predecessor.
//
// Entries are never evicted: the map grows with the number of distinct phone
// numbers seen, which tracks the customer population, not call volume. Add an
// idle-entry sweep before this serves more than a few hundred thousand
// customers per process lifetime.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// lock acquires the mutex for key and returns its unlock func.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
