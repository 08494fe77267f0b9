package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/foodorders/internal/pricing"
)

type Status string

const (
	StatusPlaced         Status = "placed"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusRejected       Status = "rejected"
	StatusCancelled      Status = "cancelled"
)

const (
	PaymentCOD    = "cod"
	PaymentOnline = "online"
	PaymentCard   = "card"

	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Item is a frozen order line; it is never re-read from the catalog.
type Item struct {
	ItemID              string          `json:"item"                          bson:"item_id"`
	Name                string          `json:"name"                          bson:"name"`
	Price               decimal.Decimal `json:"price"                         bson:"price"`
	Quantity            int             `json:"quantity"                      bson:"quantity"`
	TotalPrice          decimal.Decimal `json:"totalPrice"                    bson:"total_price"`
	SpecialInstructions string          `json:"specialInstructions,omitempty" bson:"special_instructions,omitempty"`
}

type TrackingEvent struct {
	Status    Status    `json:"status"              bson:"status"`
	Timestamp time.Time `json:"timestamp"           bson:"timestamp"`
	Message   string    `json:"message"             bson:"message"`
	UpdatedBy string    `json:"updatedBy,omitempty" bson:"updated_by,omitempty"`
}

// DeliveryAddress is copied from the address book when the order is placed.
type DeliveryAddress struct {
	Name    string `json:"name"    bson:"name"`
	Phone   string `json:"phone"   bson:"phone"`
	Address string `json:"address" bson:"address"`
	City    string `json:"city"    bson:"city"`
	State   string `json:"state"   bson:"state"`
	Pincode string `json:"pincode" bson:"pincode"`
}

type Order struct {
	ID                    string          `json:"id"                              bson:"_id"`
	OrderNumber           string          `json:"orderNumber"                     bson:"order_number"`
	CustomerID            string          `json:"customer"                        bson:"customer_id"`
	RestaurantID          string          `json:"restaurant"                      bson:"restaurant_id"`
	Items                 []Item          `json:"items"                           bson:"items"`
	DeliveryAddress       DeliveryAddress `json:"deliveryAddress"                 bson:"delivery_address"`
	pricing.Totals        `bson:",inline"`
	Status                Status          `json:"status"                          bson:"status"`
	TrackingHistory       []TrackingEvent `json:"trackingHistory"                 bson:"tracking_history"`
	PaymentMethod         string          `json:"paymentMethod"                   bson:"payment_method"`
	PaymentStatus         string          `json:"paymentStatus"                   bson:"payment_status"`
	EstimatedDeliveryTime *time.Time      `json:"estimatedDeliveryTime,omitempty" bson:"estimated_delivery_time,omitempty"`
	ActualDeliveryTime    *time.Time      `json:"actualDeliveryTime,omitempty"    bson:"actual_delivery_time,omitempty"`
	SpecialInstructions   string          `json:"specialInstructions,omitempty"   bson:"special_instructions,omitempty"`
	CancellationReason    string          `json:"cancellationReason,omitempty"    bson:"cancellation_reason,omitempty"`
	RejectionReason       string          `json:"rejectionReason,omitempty"       bson:"rejection_reason,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"                       bson:"created_at"`
	UpdatedAt             time.Time       `json:"updatedAt"                       bson:"updated_at"`
	Version               int64           `json:"-"                               bson:"version"`
}

// TrackingView is what a customer polls while waiting for the food.
type TrackingView struct {
	OrderNumber           string          `json:"orderNumber"`
	Status                Status          `json:"status"`
	TrackingHistory       []TrackingEvent `json:"trackingHistory"`
	EstimatedDeliveryTime *time.Time      `json:"estimatedDeliveryTime,omitempty"`
	ActualDeliveryTime    *time.Time      `json:"actualDeliveryTime,omitempty"`
	// DurationMinutes is set once the order has been delivered.
	DurationMinutes *int `json:"durationMinutes,omitempty"`
}

func (o *Order) Tracking() TrackingView {
	v := TrackingView{
		OrderNumber:           o.OrderNumber,
		Status:                o.Status,
		TrackingHistory:       append([]TrackingEvent(nil), o.TrackingHistory...),
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		ActualDeliveryTime:    o.ActualDeliveryTime,
	}
	if o.ActualDeliveryTime != nil {
		m := int(o.ActualDeliveryTime.Sub(o.CreatedAt).Minutes())
		v.DurationMinutes = &m
	}
	return v
}
