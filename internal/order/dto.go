package order

import "time"

// CheckoutRequest payload of cart checkout.
// swagger:model CheckoutRequest
type CheckoutRequest struct {
	DeliveryAddressID   string `json:"deliveryAddressId"   binding:"required"          example:"ckx1q2w3e0000abcd1234efgh"`
	SpecialInstructions string `json:"specialInstructions" binding:"omitempty,max=500"`
	PaymentMethod       string `json:"paymentMethod"       binding:"omitempty,oneof=cod online card" example:"cod"`
}

// DirectItem one line of a direct order.
// swagger:model DirectItem
type DirectItem struct {
	ItemID              string `json:"itemId"              binding:"required"          example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity            int    `json:"quantity"            binding:"required,min=1"    example:"2"`
	SpecialInstructions string `json:"specialInstructions" binding:"omitempty,max=500"`
}

// DirectRequest payload of an order placed without a cart.
// swagger:model DirectRequest
type DirectRequest struct {
	RestaurantID        string       `json:"restaurantId"        binding:"required" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	Items               []DirectItem `json:"items"               binding:"dive"`
	DeliveryAddressID   string       `json:"deliveryAddressId"   binding:"required"`
	SpecialInstructions string       `json:"specialInstructions" binding:"omitempty,max=500"`
	PaymentMethod       string       `json:"paymentMethod"       binding:"omitempty,oneof=cod online card" example:"cod"`
}

// StatusUpdate payload of an owner status change.
// swagger:model StatusUpdate
type StatusUpdate struct {
	Status                Status     `json:"status"                binding:"required" example:"confirmed"`
	Message               string     `json:"message"               binding:"omitempty,max=500"`
	EstimatedDeliveryTime *time.Time `json:"estimatedDeliveryTime"`
}

// ListQuery query string of the order listings.
type ListQuery struct {
	Page   int       `form:"page"   binding:"omitempty,min=1"`
	Limit  int       `form:"limit"  binding:"omitempty,min=1,max=50"`
	Status Status    `form:"status"`
	From   time.Time `form:"from"   time_format:"2006-01-02"`
	To     time.Time `form:"to"     time_format:"2006-01-02"`
}

// Page is one slice of an order listing.
type Page struct {
	Orders     []Order `json:"orders"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Total      int64   `json:"total"`
	TotalPages int     `json:"totalPages"`
}
