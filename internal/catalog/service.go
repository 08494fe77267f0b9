package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/foodorders/internal/apperr"
)

var ErrInvalidAmount = apperr.Validation("InvalidAmount", "amount must be a non-negative number")

// Service is the owner-facing menu management plus the public menu read.
type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ParseAmount parses a money string; empty means zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount.Withf("invalid amount %q", s)
	}
	return d, nil
}

// OwnedRestaurant returns the restaurant run by ownerID.
func (s *Service) OwnedRestaurant(ctx context.Context, ownerID string) (*Restaurant, error) {
	r, err := s.repo.GetRestaurantByOwner(ctx, ownerID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant by owner: %w", err)
	}
	return r, nil
}

// SaveForOwner creates the owner's restaurant or updates it in place.
func (s *Service) SaveForOwner(ctx context.Context, ownerID string, in RestaurantRequest) (*Restaurant, error) {
	fee, err := ParseAmount(in.DeliveryFee)
	if err != nil {
		return nil, err
	}
	minOrder, err := ParseAmount(in.MinimumOrder)
	if err != nil {
		return nil, err
	}

	r, err := s.repo.GetRestaurantByOwner(ctx, ownerID)
	switch {
	case errors.Is(err, ErrNotFound):
		r = &Restaurant{ID: uuid.NewString(), OwnerID: ownerID, IsActive: true, CreatedAt: s.now().UTC()}
	case err != nil:
		return nil, fmt.Errorf("get restaurant by owner: %w", err)
	}

	r.Name = in.Name
	r.Description = in.Description
	r.Address = in.Address
	r.Phone = in.Phone
	r.Email = in.Email
	r.Cuisine = in.Cuisine
	r.DeliveryRadius = in.DeliveryRadius
	if r.DeliveryRadius == 0 {
		r.DeliveryRadius = 5
	}
	r.DeliveryFee = fee
	r.MinimumOrder = minOrder
	r.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveRestaurant(ctx, r); err != nil {
		return nil, fmt.Errorf("save restaurant: %w", err)
	}
	return r, nil
}

// Menu lists the orderable items of an active restaurant; customers browse
// it before adding to cart.
func (s *Service) Menu(ctx context.Context, restaurantID string) ([]Item, error) {
	r, err := s.repo.GetRestaurant(ctx, restaurantID)
	if errors.Is(err, ErrNotFound) || (err == nil && !r.IsActive) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	all, err := s.repo.ListItems(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	items := make([]Item, 0, len(all))
	for _, it := range all {
		if it.Available() {
			items = append(items, it)
		}
	}
	return items, nil
}

func (s *Service) OwnerMenu(ctx context.Context, ownerID string) ([]Item, error) {
	r, err := s.OwnedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListItems(ctx, r.ID)
}

func (s *Service) AddItem(ctx context.Context, ownerID string, in ItemRequest) (*Item, error) {
	r, err := s.OwnedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	price, err := ParseAmount(in.Price)
	if err != nil {
		return nil, err
	}
	prep := in.PreparationTime
	if prep == 0 {
		prep = 15
	}
	now := s.now().UTC()
	it := &Item{
		ID:              uuid.NewString(),
		RestaurantID:    r.ID,
		Name:            in.Name,
		Description:     in.Description,
		Price:           price,
		Category:        in.Category,
		IsVegetarian:    in.IsVegetarian,
		IsSpicy:         in.IsSpicy,
		PreparationTime: prep,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.CreateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return it, nil
}

// UpdateItem applies a partial update. Carts and orders keep their own
// price snapshots, so a price change here never rewrites them.
func (s *Service) UpdateItem(ctx context.Context, ownerID, itemID string, in ItemUpdateRequest) (*Item, error) {
	r, err := s.OwnedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	it, err := s.repo.GetItem(ctx, itemID)
	if errors.Is(err, ErrNotFound) || (err == nil && it.RestaurantID != r.ID) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if in.Name != nil {
		it.Name = *in.Name
	}
	if in.Description != nil {
		it.Description = *in.Description
	}
	if in.Price != nil {
		p, err := ParseAmount(*in.Price)
		if err != nil {
			return nil, err
		}
		it.Price = p
	}
	if in.Category != nil {
		it.Category = *in.Category
	}
	if in.IsOutOfStock != nil {
		it.IsOutOfStock = *in.IsOutOfStock
	}
	if in.IsVegetarian != nil {
		it.IsVegetarian = *in.IsVegetarian
	}
	if in.IsSpicy != nil {
		it.IsSpicy = *in.IsSpicy
	}
	if in.PreparationTime != nil {
		it.PreparationTime = *in.PreparationTime
	}
	if in.IsActive != nil {
		it.IsActive = *in.IsActive
	}
	it.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateItem(ctx, it); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return it, nil
}

func (s *Service) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	r, err := s.OwnedRestaurant(ctx, ownerID)
	if err != nil {
		return err
	}
	ok, err := s.repo.DeleteItem(ctx, r.ID, itemID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if !ok {
		return ErrItemNotFound
	}
	return nil
}
