package cart

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Store keeps per-customer carts in memory, keyed by an opaque token the
// client carries between requests. This replaces ambient session state:
// handlers pass the resolved mapping into the core explicitly.
type Store struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]map[string]int32
}

func NewStore() *Store {
	return &Store{carts: make(map[uuid.UUID]map[string]int32)}
}

// Add increments the quantity for a menu item, creating the cart when the
// token is unknown. It returns the token (freshly issued when tok is the
// zero UUID) and a snapshot of the cart.
func (s *Store) Add(tok uuid.UUID, menuItemID int64, qty int32) (uuid.UUID, map[string]int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok == uuid.Nil {
		tok = uuid.New()
	}
	c, ok := s.carts[tok]
	if !ok {
		c = make(map[string]int32)
		s.carts[tok] = c
	}
	// Key format matches what FromMap parses back.
	c[strconv.FormatInt(menuItemID, 10)] += qty
	return tok, snapshot(c)
}

// Get returns a snapshot of the cart for the token. Unknown tokens yield an
// empty cart.
func (s *Store) Get(tok uuid.UUID) map[string]int32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.carts[tok])
}

// Clear empties the cart for the token.
func (s *Store) Clear(tok uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, tok)
}

func snapshot(c map[string]int32) map[string]int32 {
	out := make(map[string]int32, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
