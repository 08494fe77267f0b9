package memory

import (
	"context"
	"sort"

	"github.com/MikeMC777/foodorders/internal/catalog"
)

func copyRestaurant(r *catalog.Restaurant) *catalog.Restaurant {
	cp := *r
	cp.Cuisine = append([]string(nil), r.Cuisine...)
	return &cp
}

func (s *Store) GetRestaurant(_ context.Context, id string) (*catalog.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.restaurants[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return copyRestaurant(r), nil
}

func (s *Store) GetRestaurantByOwner(_ context.Context, ownerID string) (*catalog.Restaurant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byOwner[ownerID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return copyRestaurant(s.restaurants[id]), nil
}

func (s *Store) SaveRestaurant(_ context.Context, r *catalog.Restaurant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restaurants[r.ID] = copyRestaurant(r)
	s.byOwner[r.OwnerID] = r.ID
	return nil
}

// DeleteRestaurant drops a restaurant and leaves its items orphaned.
func (s *Store) DeleteRestaurant(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.restaurants[id]; ok {
		delete(s.byOwner, r.OwnerID)
		delete(s.restaurants, id)
	}
}

func (s *Store) GetItem(_ context.Context, id string) (*catalog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (s *Store) ListItems(_ context.Context, restaurantID string) ([]catalog.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []catalog.Item{}
	for _, it := range s.items {
		if it.RestaurantID == restaurantID {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) CreateItem(_ context.Context, it *catalog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *it
	s.items[it.ID] = &cp
	return nil
}

func (s *Store) UpdateItem(_ context.Context, it *catalog.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[it.ID]; !ok {
		return catalog.ErrNotFound
	}
	cp := *it
	s.items[it.ID] = &cp
	return nil
}

func (s *Store) DeleteItem(_ context.Context, restaurantID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok || it.RestaurantID != restaurantID {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}
