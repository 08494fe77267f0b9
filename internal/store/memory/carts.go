package memory

import (
	"context"
	"time"

	"github.com/MikeMC777/foodorders/internal/cart"
)

func copyCart(c *cart.Cart) *cart.Cart {
	cp := *c
	cp.Items = append([]cart.Item{}, c.Items...)
	return &cp
}

func (s *Store) GetCart(_ context.Context, customerID string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[customerID]
	if !ok {
		return nil, cart.ErrNotFound
	}
	return copyCart(c), nil
}

func (s *Store) SaveCart(_ context.Context, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.carts[c.CustomerID]
	switch {
	case c.Version == 0 && ok:
		return cart.ErrVersionConflict
	case c.Version != 0 && (!ok || cur.Version != c.Version):
		return cart.ErrVersionConflict
	}
	c.Version++
	s.carts[c.CustomerID] = copyCart(c)
	return nil
}

func (s *Store) DeleteCart(_ context.Context, customerID string, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteCartLocked(customerID, version)
}

func (s *Store) deleteCartLocked(customerID string, version int64) error {
	cur, ok := s.carts[customerID]
	if !ok {
		return nil
	}
	if version != 0 && cur.Version != version {
		return cart.ErrVersionConflict
	}
	delete(s.carts, customerID)
	return nil
}

func (s *Store) DeleteExpiredCarts(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, c := range s.carts {
		if c.Expired(now) {
			delete(s.carts, id)
			n++
		}
	}
	return n, nil
}
