// Package cart keeps each customer's single in-progress cart: one restaurant,
// snapshotted prices, totals recomputed on every change, a fixed lifetime.
package cart

import (
	"context"
	"errors"
	"time"

	"github.com/MikeMC777/foodorders/internal/apperr"
)

var (
	// Repository sentinels.
	ErrNotFound        = errors.New("cart not found")
	ErrVersionConflict = errors.New("cart version conflict")

	ErrInvalidQuantity    = apperr.Validation("InvalidQuantity", "quantity must be at least 1")
	ErrItemUnavailable    = apperr.State("ItemUnavailable", "item is no longer available")
	ErrRestaurantMismatch = apperr.State("RestaurantMismatch", "cannot add items from different restaurants to the same cart")
	ErrCartNotFound       = apperr.NotFound("CartNotFound", "cart not found")
	ErrCartExpired        = apperr.State("CartExpired", "cart has expired")
	ErrItemNotInCart      = apperr.NotFound("ItemNotInCart", "item not found in cart")
	ErrCartConflict       = apperr.Conflict("CartConflict", "cart was modified concurrently, please retry")
)

type Repository interface {
	GetCart(ctx context.Context, customerID string) (*Cart, error)
	// SaveCart inserts when c.Version is 0 and otherwise replaces the stored
	// cart only if its version still equals c.Version. On success c.Version
	// is bumped; a lost race returns ErrVersionConflict.
	SaveCart(ctx context.Context, c *Cart) error
	// DeleteCart removes the customer's cart. A version of 0 deletes
	// unconditionally; a missing cart is not an error.
	DeleteCart(ctx context.Context, customerID string, version int64) error
	DeleteExpiredCarts(ctx context.Context, now time.Time) (int64, error)
}
