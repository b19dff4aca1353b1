package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTTL applies when Set is given a non-positive ttl
const DefaultTTL = 30 * time.Minute

// Stats provides statistics about cache usage
type Stats struct {
	Hits       int64
	Misses     int64
	Sets       int64
	Evictions  int64
	Size       int
	MaxEntries int
}

// Memory is an in-memory TTL cache bounded by entry count
type Memory[V any] struct {
	mu         sync.RWMutex
	items      map[string]*item[V]
	maxEntries int
	now        func() time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type item[V any] struct {
	value  V
	expiry time.Time
}

// NewMemory creates a cache holding at most maxEntries values; zero means
// unbounded. A janitor removes expired values every sweep interval until
// Stop is called; a non-positive sweep disables it.
func NewMemory[V any](maxEntries int, sweep time.Duration) *Memory[V] {
	m := &Memory[V]{
		items:      make(map[string]*item[V]),
		maxEntries: maxEntries,
		now:        time.Now,
		stopCh:     make(chan struct{}),
	}
	if sweep > 0 {
		m.wg.Add(1)
		go m.janitor(sweep)
	}
	return m
}

// Get retrieves a live value
func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()

	if !ok || m.now().After(it.expiry) {
		if ok {
			m.Delete(key)
		}
		m.misses.Add(1)
		var zero V
		return zero, false
	}

	m.hits.Add(1)
	return it.value, true
}

// Set stores value under key for ttl
func (m *Memory[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	m.mu.Lock()
	if _, exists := m.items[key]; !exists {
		m.makeRoomLocked()
	}
	m.items[key] = &item[V]{value: value, expiry: m.now().Add(ttl)}
	m.mu.Unlock()

	m.sets.Add(1)
}

// Delete removes key
func (m *Memory[V]) Delete(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

// Clear removes every value
func (m *Memory[V]) Clear() {
	m.mu.Lock()
	m.items = make(map[string]*item[V])
	m.mu.Unlock()
}

// Len returns the number of stored values, expired or not
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Stats returns cache statistics
func (m *Memory[V]) Stats() Stats {
	return Stats{
		Hits:       m.hits.Load(),
		Misses:     m.misses.Load(),
		Sets:       m.sets.Load(),
		Evictions:  m.evictions.Load(),
		Size:       m.Len(),
		MaxEntries: m.maxEntries,
	}
}

// Stop shuts the janitor down. It is safe to call more than once.
func (m *Memory[V]) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
}

func (m *Memory[V]) janitor(every time.Duration) {
	defer m.wg.Done()
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.RemoveExpired()
		case <-m.stopCh:
			return
		}
	}
}

// RemoveExpired drops every expired value and returns how many it dropped
func (m *Memory[V]) RemoveExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeExpiredLocked()
}

func (m *Memory[V]) removeExpiredLocked() int {
	now := m.now()
	removed := 0
	for key, it := range m.items {
		if now.After(it.expiry) {
			delete(m.items, key)
			removed++
		}
	}
	m.evictions.Add(int64(removed))
	return removed
}

// makeRoomLocked evicts expired values first, then the value closest to
// expiry, until one more value fits
func (m *Memory[V]) makeRoomLocked() {
	if m.maxEntries <= 0 || len(m.items) < m.maxEntries {
		return
	}
	m.removeExpiredLocked()

	for len(m.items) >= m.maxEntries {
		var victim string
		var soonest time.Time
		for key, it := range m.items {
			if victim == "" || it.expiry.Before(soonest) {
				victim, soonest = key, it.expiry
			}
		}
		delete(m.items, victim)
		m.evictions.Add(1)
	}
}
