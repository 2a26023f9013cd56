package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Store maps session IDs to their view caches. Sessions expire after ttl
// without a lookup, and the least recently used session is dropped once more
// than maxEntries are live. Dropping a session discards its cache.
type Store struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock

	mu      sync.Mutex
	entries map[string]*entry
	head    *entry // most recently used
	tail    *entry // least recently used

	// onChange, if set, receives the live session count after each mutation.
	onChange func(live int)
}

type entry struct {
	id       string
	cache    *ViewCache
	lastSeen time.Time
	prev     *entry
	next     *entry
}

// Option configures a Store.
type Option func(*Store)

// WithClock swaps the time source used for expiry.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithSizeObserver registers a callback for the live session count.
func WithSizeObserver(fn func(live int)) Option {
	return func(s *Store) { s.onChange = fn }
}

// NewStore creates a session store.
func NewStore(maxEntries int, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clockwork.NewRealClock(),
		entries:    make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cache for id and refreshes its idle timer. Unknown and
// expired sessions report false.
func (s *Store) Get(id string) (*ViewCache, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	now := s.clock.Now()
	if s.expired(e, now) {
		s.drop(e)
		s.notify()
		return nil, false
	}
	e.lastSeen = now
	s.moveToFront(e)
	return e.cache, true
}

// Create starts a new session with an empty cache and returns its ID.
func (s *Store) Create() (string, *ViewCache) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{
		id:       uuid.NewString(),
		cache:    NewViewCache(),
		lastSeen: s.clock.Now(),
	}
	s.entries[e.id] = e
	s.addToFront(e)

	s.sweep(e.lastSeen)
	for len(s.entries) > s.maxEntries {
		s.drop(s.tail)
	}
	s.notify()
	return e.id, e.cache
}

// Len returns the number of live sessions, expired ones included until swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// sweep drops expired sessions from the idle end of the list.
func (s *Store) sweep(now time.Time) {
	for s.tail != nil && s.expired(s.tail, now) {
		s.drop(s.tail)
	}
}

func (s *Store) expired(e *entry, now time.Time) bool {
	return now.Sub(e.lastSeen) >= s.ttl
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange(len(s.entries))
	}
}

func (s *Store) drop(e *entry) {
	delete(s.entries, e.id)
	s.remove(e)
}

func (s *Store) moveToFront(e *entry) {
	if e == s.head {
		return
	}
	s.remove(e)
	s.addToFront(e)
}

func (s *Store) addToFront(e *entry) {
	e.next = s.head
	e.prev = nil
	if s.head != nil {
		s.head.prev = e
	}
	s.head = e
	if s.tail == nil {
		s.tail = e
	}
}

func (s *Store) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
}
