package memory

import (
	"context"
	"sort"

	"github.com/MikeMC777/foodorders/internal/cart"
	"github.com/MikeMC777/foodorders/internal/order"
)

func copyOrder(o *order.Order) *order.Order {
	cp := *o
	cp.Items = append([]order.Item(nil), o.Items...)
	cp.TrackingHistory = append([]order.TrackingEvent(nil), o.TrackingHistory...)
	if o.EstimatedDeliveryTime != nil {
		t := *o.EstimatedDeliveryTime
		cp.EstimatedDeliveryTime = &t
	}
	if o.ActualDeliveryTime != nil {
		t := *o.ActualDeliveryTime
		cp.ActualDeliveryTime = &t
	}
	return &cp
}

func (s *Store) CreateOrder(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertOrderLocked(o)
}

func (s *Store) insertOrderLocked(o *order.Order) error {
	if _, taken := s.numbers[o.OrderNumber]; taken {
		return order.ErrDuplicateNumber
	}
	o.Version = 1
	s.orders[o.ID] = copyOrder(o)
	s.numbers[o.OrderNumber] = o.ID
	return nil
}

func (s *Store) CreateOrderFromCart(_ context.Context, o *order.Order, customerID string, cartVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.carts[customerID]
	if !ok || cur.Version != cartVersion {
		return cart.ErrVersionConflict
	}
	if err := s.insertOrderLocked(o); err != nil {
		return err
	}
	return s.deleteCartLocked(customerID, cartVersion)
}

func (s *Store) GetOrder(_ context.Context, id string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return copyOrder(o), nil
}

func (s *Store) ListOrders(_ context.Context, f order.Filter) ([]order.Order, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []order.Order
	for _, o := range s.orders {
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		if f.RestaurantID != "" && o.RestaurantID != f.RestaurantID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if !f.From.IsZero() && o.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && o.CreatedAt.After(f.To) {
			continue
		}
		matched = append(matched, *copyOrder(o))
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].OrderNumber > matched[j].OrderNumber
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := int64(len(matched))
	if f.Offset >= len(matched) {
		return []order.Order{}, total, nil
	}
	end := len(matched)
	if f.Limit > 0 && f.Offset+f.Limit < end {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}

func (s *Store) ApplyStatus(_ context.Context, o *order.Order, ev order.TrackingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.orders[o.ID]
	if !ok {
		return order.ErrNotFound
	}
	if cur.Version != o.Version {
		return order.ErrVersionConflict
	}
	next := copyOrder(cur)
	next.Status = o.Status
	next.TrackingHistory = append(next.TrackingHistory, ev)
	next.EstimatedDeliveryTime = o.EstimatedDeliveryTime
	next.ActualDeliveryTime = o.ActualDeliveryTime
	next.CancellationReason = o.CancellationReason
	next.RejectionReason = o.RejectionReason
	next.UpdatedAt = o.UpdatedAt
	next.Version++
	s.orders[o.ID] = copyOrder(next)
	o.Version = next.Version
	return nil
}

func (s *Store) NextOrderSequence(_ context.Context, day string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[day]++
	return s.counters[day], nil
}
