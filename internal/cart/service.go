package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/MikeMC777/foodorders/internal/catalog"
)

const (
	DefaultTTL  = 24 * time.Hour
	maxAttempts = 3
)

// Catalog is the read side of the menu the cart prices against.
type Catalog interface {
	GetItem(ctx context.Context, id string) (*catalog.Item, error)
	GetRestaurant(ctx context.Context, id string) (*catalog.Restaurant, error)
}

type Service struct {
	repo    Repository
	catalog Catalog
	ttl     time.Duration
	now     func() time.Time
}

func NewService(repo Repository, cat Catalog, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: repo, catalog: cat, ttl: ttl, now: time.Now}
}

// WithClock swaps the time source; tests use it to move past expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// AddItem puts quantity units of itemID in the customer's cart, creating the
// cart if needed. An expired cart is dropped and replaced.
func (s *Service) AddItem(ctx context.Context, customerID, itemID string, quantity int, instructions string) (View, error) {
	if quantity < 1 {
		return View{}, ErrInvalidQuantity
	}
	it, err := s.catalog.GetItem(ctx, itemID)
	if errors.Is(err, catalog.ErrNotFound) {
		return View{}, catalog.ErrItemNotFound
	}
	if err != nil {
		return View{}, fmt.Errorf("get item: %w", err)
	}
	if !it.Available() {
		return View{}, ErrItemUnavailable.Withf("%s is currently out of stock", it.Name)
	}
	r, err := s.catalog.GetRestaurant(ctx, it.RestaurantID)
	if errors.Is(err, catalog.ErrNotFound) {
		return View{}, catalog.ErrRestaurantNotFound
	}
	if err != nil {
		return View{}, fmt.Errorf("get restaurant: %w", err)
	}

	var out *Cart
	err = s.retry(customerID, func() error {
		now := s.now().UTC()
		c, err := s.load(ctx, customerID)
		if err != nil {
			return err
		}
		if c != nil && c.Expired(now) {
			if err := s.repo.DeleteCart(ctx, customerID, c.Version); err != nil {
				return err
			}
			log.Printf("[cart] customer=%s expired cart=%s discarded", customerID, c.ID)
			c = nil
		}
		if c == nil {
			c = newCart(uuid.NewString(), customerID, r, now, s.ttl)
		} else if c.RestaurantID != it.RestaurantID {
			return ErrRestaurantMismatch
		}
		c.add(Item{
			ItemID:              it.ID,
			Name:                it.Name,
			Price:               it.Price,
			Quantity:            quantity,
			SpecialInstructions: instructions,
		})
		c.UpdatedAt = now
		if err := s.repo.SaveCart(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return Project(out), nil
}

// UpdateQuantity sets the quantity of a line already in the cart.
func (s *Service) UpdateQuantity(ctx context.Context, customerID, itemID string, quantity int) (View, error) {
	if quantity < 1 {
		return View{}, ErrInvalidQuantity
	}
	var out *Cart
	err := s.retry(customerID, func() error {
		c, i, err := s.activeLine(ctx, customerID, itemID)
		if err != nil {
			return err
		}
		it, err := s.catalog.GetItem(ctx, itemID)
		if errors.Is(err, catalog.ErrNotFound) || (err == nil && !it.Available()) {
			return ErrItemUnavailable.Withf("%s is no longer available", c.Items[i].Name)
		}
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		c.setQuantity(i, quantity)
		c.UpdatedAt = s.now().UTC()
		if err := s.repo.SaveCart(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return Project(out), nil
}

func (s *Service) RemoveItem(ctx context.Context, customerID, itemID string) (View, error) {
	var out *Cart
	err := s.retry(customerID, func() error {
		c, i, err := s.activeLine(ctx, customerID, itemID)
		if err != nil {
			return err
		}
		c.remove(i)
		c.UpdatedAt = s.now().UTC()
		if err := s.repo.SaveCart(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return Project(out), nil
}

// Clear drops the cart. Clearing a missing cart succeeds.
func (s *Service) Clear(ctx context.Context, customerID string) error {
	if err := s.repo.DeleteCart(ctx, customerID, 0); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// View returns the current cart. Lines whose item has gone from the menu or
// out of stock are dropped and the pruned cart is saved before returning.
func (s *Service) View(ctx context.Context, customerID string) (View, error) {
	var out *Cart
	err := s.retry(customerID, func() error {
		out = nil
		c, err := s.load(ctx, customerID)
		if err != nil || c == nil {
			return err
		}
		if c.Expired(s.now()) {
			return s.repo.DeleteCart(ctx, customerID, c.Version)
		}
		kept := c.Items[:0:0]
		for _, line := range c.Items {
			it, err := s.catalog.GetItem(ctx, line.ItemID)
			if errors.Is(err, catalog.ErrNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get item: %w", err)
			}
			if it.Available() {
				kept = append(kept, line)
			}
		}
		if len(kept) != len(c.Items) {
			log.Printf("[cart] customer=%s dropped %d unavailable line(s)", customerID, len(c.Items)-len(kept))
			c.Items = kept
			c.Recalculate()
			c.UpdatedAt = s.now().UTC()
			if err := s.repo.SaveCart(ctx, c); err != nil {
				return err
			}
		}
		out = c
		return nil
	})
	if err != nil {
		return View{}, err
	}
	return Project(out), nil
}

// CleanExpired removes every cart whose lifetime has passed.
func (s *Service) CleanExpired(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredCarts(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired carts: %w", err)
	}
	log.Printf("[cart] removed %d expired cart(s)", n)
	return n, nil
}

func (s *Service) load(ctx context.Context, customerID string) (*Cart, error) {
	c, err := s.repo.GetCart(ctx, customerID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return c, nil
}

// activeLine loads an unexpired cart and locates itemID in it. An expired
// cart is deleted on the way out.
func (s *Service) activeLine(ctx context.Context, customerID, itemID string) (*Cart, int, error) {
	c, err := s.load(ctx, customerID)
	if err != nil {
		return nil, 0, err
	}
	if c == nil {
		return nil, 0, ErrCartNotFound
	}
	if c.Expired(s.now()) {
		if err := s.repo.DeleteCart(ctx, customerID, c.Version); err != nil {
			return nil, 0, err
		}
		return nil, 0, ErrCartExpired
	}
	i := c.index(itemID)
	if i < 0 {
		return nil, 0, ErrItemNotInCart
	}
	return c, i, nil
}

// retry reruns fn while it loses a version race.
func (s *Service) retry(customerID string, fn func() error) error {
	for attempt := 1; ; attempt++ {
		err := fn()
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
		if attempt == maxAttempts {
			log.Printf("[cart] customer=%s giving up after %d version conflicts", customerID, attempt)
			return ErrCartConflict
		}
	}
}
