// Package order turns carts and direct item lists into priced, immutable
// orders and moves them through their status lifecycle.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/MikeMC777/foodorders/internal/apperr"
)

var (
	// Repository sentinels.
	ErrNotFound        = errors.New("order not found")
	ErrDuplicateNumber = errors.New("duplicate order number")
	ErrVersionConflict = errors.New("order version conflict")

	ErrOrderNotFound          = apperr.NotFound("OrderNotFound", "order not found")
	ErrCartEmpty              = apperr.State("CartEmpty", "cart is empty")
	ErrOrderEmpty             = apperr.Validation("OrderEmpty", "order must contain at least one item")
	ErrMinimumOrderNotMet     = apperr.State("MinimumOrderNotMet", "order total is below the restaurant minimum")
	ErrItemRestaurantMismatch = apperr.State("ItemRestaurantMismatch", "item does not belong to this restaurant")
	ErrIllegalTransition      = apperr.Conflict("IllegalTransition", "status transition is not allowed")
	ErrInvalidStatus          = apperr.Validation("InvalidStatus", "unknown order status")
	ErrInvalidPaymentMethod   = apperr.Validation("InvalidPaymentMethod", "payment method must be one of cod, online, card")
	ErrOrderConflict          = apperr.Conflict("OrderConflict", "order was modified concurrently, please retry")
	ErrNumberExhausted        = apperr.New(apperr.KindInternal, "OrderNumberUnavailable", "could not allocate an order number")
)

// Filter narrows an order listing. Zero values mean no constraint.
type Filter struct {
	CustomerID   string
	RestaurantID string
	Status       Status
	From, To     time.Time
	Limit        int
	Offset       int
}

type Repository interface {
	// CreateOrder inserts o; a taken order number yields ErrDuplicateNumber.
	CreateOrder(ctx context.Context, o *Order) error
	// CreateOrderFromCart inserts o and deletes the customer's cart in one
	// atomic step. The cart must still be at cartVersion, otherwise nothing
	// is written and cart.ErrVersionConflict is returned.
	CreateOrderFromCart(ctx context.Context, o *Order, customerID string, cartVersion int64) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	// ListOrders returns one page, newest first, plus the total match count.
	ListOrders(ctx context.Context, f Filter) ([]Order, int64, error)
	// ApplyStatus stores o's status fields and appends ev to its tracking
	// history if the stored version still equals o.Version, then bumps it.
	ApplyStatus(ctx context.Context, o *Order, ev TrackingEvent) error
	// NextOrderSequence atomically increments and returns the counter for day.
	NextOrderSequence(ctx context.Context, day string) (int64, error)
}
