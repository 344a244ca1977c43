package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ixoye/storefront/internal/domain/cart"
)

// session pairs a cart with its last-touched timestamp for TTL eviction.
type session struct {
	cart     *cart.Cart
	lastSeen time.Time
}

// CartStore is an in-memory, session-scoped cart store. Carts live for the
// browsing session: they expire after the configured idle TTL and die with
// the process. All access to a cart goes through the store's lock, so the
// cart values themselves stay unsynchronized.
type CartStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

var _ cart.Store = (*CartStore)(nil)

// NewCartStore creates a CartStore whose sessions expire after ttl of
// inactivity. A non-positive ttl disables expiry.
func NewCartStore(ttl time.Duration) *CartStore {
	return &CartStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Create opens a new cart session and returns its id.
func (s *CartStore) Create(_ context.Context) (string, error) {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session{cart: cart.New(), lastSeen: s.now()}

	return id, nil
}

// Get returns a snapshot of the cart for the given session. It returns
// cart.ErrCartNotFound for unknown or expired sessions.
func (s *CartStore) Get(_ context.Context, id string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.lookup(id)
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	sess.lastSeen = s.now()

	// Copy out so callers never alias the stored cart.
	snapshot := cart.New()
	for _, l := range sess.cart.Lines() {
		snapshot.Add(l.ProductID, l.Quantity)
	}
	return snapshot, nil
}

// Update runs fn with exclusive access to the session's cart.
func (s *CartStore) Update(_ context.Context, id string, fn func(*cart.Cart)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.lookup(id)
	if !ok {
		return cart.ErrCartNotFound
	}
	sess.lastSeen = s.now()
	fn(sess.cart)

	return nil
}

// Delete drops the session entirely.
func (s *CartStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// lookup fetches a session, dropping it on the spot when expired.
// Caller must hold s.mu.
func (s *CartStore) lookup(id string) (*session, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess) {
		delete(s.sessions, id)
		return nil, false
	}
	return sess, true
}

func (s *CartStore) expired(sess *session) bool {
	return s.ttl > 0 && s.now().Sub(sess.lastSeen) >= s.ttl
}

// StartSweep launches a background goroutine that evicts expired sessions
// periodically. It stops when ctx is cancelled.
func (s *CartStore) StartSweep(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *CartStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
		}
	}
}
