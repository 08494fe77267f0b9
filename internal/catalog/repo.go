// Package catalog owns restaurants and their menu items: the reference data
// carts and orders price against.
package catalog

import (
	"context"
	"errors"

	"github.com/MikeMC777/foodorders/internal/apperr"
)

var (
	// ErrNotFound is returned by repositories for a missing record.
	ErrNotFound = errors.New("catalog record not found")

	ErrRestaurantNotFound = apperr.NotFound("RestaurantNotFound", "restaurant not found")
	ErrItemNotFound       = apperr.NotFound("ItemNotFound", "item not found")
)

type Repository interface {
	GetRestaurant(ctx context.Context, id string) (*Restaurant, error)
	GetRestaurantByOwner(ctx context.Context, ownerID string) (*Restaurant, error)
	SaveRestaurant(ctx context.Context, r *Restaurant) error

	GetItem(ctx context.Context, id string) (*Item, error)
	ListItems(ctx context.Context, restaurantID string) ([]Item, error)
	CreateItem(ctx context.Context, it *Item) error
	UpdateItem(ctx context.Context, it *Item) error
	DeleteItem(ctx context.Context, restaurantID, id string) (bool, error)
}
