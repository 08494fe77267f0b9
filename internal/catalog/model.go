package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Address struct {
	Street  string `json:"street"  bson:"street"  binding:"required"`
	City    string `json:"city"    bson:"city"    binding:"required"`
	State   string `json:"state"   bson:"state"   binding:"required"`
	Pincode string `json:"pincode" bson:"pincode" binding:"required"`
}

type Restaurant struct {
	ID          string   `json:"id"          bson:"_id"`
	OwnerID     string   `json:"ownerId"     bson:"owner_id"`
	Name        string   `json:"name"        bson:"name"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Address     Address  `json:"address"     bson:"address"`
	Phone       string   `json:"phone"       bson:"phone"`
	Email       string   `json:"email,omitempty" bson:"email,omitempty"`
	Cuisine     []string `json:"cuisine"     bson:"cuisine"`
	IsActive    bool     `json:"isActive"    bson:"is_active"`
	// in kilometers
	DeliveryRadius int `json:"deliveryRadius" bson:"delivery_radius"`
	// Money is kept as decimal and rendered as a string, same as NUMERIC columns.
	DeliveryFee  decimal.Decimal `json:"deliveryFee"  bson:"delivery_fee"`
	MinimumOrder decimal.Decimal `json:"minimumOrder" bson:"minimum_order"`
	CreatedAt    time.Time       `json:"createdAt"    bson:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt"    bson:"updated_at"`
}

type Item struct {
	ID           string          `json:"id"           bson:"_id"`
	RestaurantID string          `json:"restaurantId" bson:"restaurant_id"`
	Name         string          `json:"name"         bson:"name"`
	Description  string          `json:"description,omitempty" bson:"description,omitempty"`
	Price        decimal.Decimal `json:"price"        bson:"price"`
	Category     string          `json:"category"     bson:"category"`
	IsOutOfStock bool            `json:"isOutOfStock" bson:"is_out_of_stock"`
	IsVegetarian bool            `json:"isVegetarian" bson:"is_vegetarian"`
	IsSpicy      bool            `json:"isSpicy"      bson:"is_spicy"`
	// minutes
	PreparationTime int       `json:"preparationTime" bson:"preparation_time"`
	IsActive        bool      `json:"isActive"        bson:"is_active"`
	CreatedAt       time.Time `json:"createdAt"       bson:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt"       bson:"updated_at"`
}

// Available reports whether the item can be put in a cart or an order.
func (it *Item) Available() bool {
	return it != nil && it.IsActive && !it.IsOutOfStock
}

// RestaurantRequest payload of create/update.
// swagger:model RestaurantRequest
type RestaurantRequest struct {
	Name           string   `json:"name"           binding:"required,min=2,max=100" example:"Spice Route"`
	Description    string   `json:"description"    example:"North Indian kitchen"`
	Address        Address  `json:"address"        binding:"required"`
	Phone          string   `json:"phone"          binding:"required" example:"9876543210"`
	Email          string   `json:"email"          binding:"omitempty,email"`
	Cuisine        []string `json:"cuisine"`
	DeliveryRadius int      `json:"deliveryRadius" binding:"omitempty,min=1,max=20" example:"5"`
	DeliveryFee    string   `json:"deliveryFee"    binding:"omitempty,numeric" example:"30"`
	MinimumOrder   string   `json:"minimumOrder"   binding:"omitempty,numeric" example:"150"`
}

// ItemRequest payload of menu item create.
// swagger:model ItemRequest
type ItemRequest struct {
	Name            string `json:"name"            binding:"required,min=1,max=100" example:"Paneer Tikka"`
	Description     string `json:"description"     example:"Char-grilled cottage cheese"`
	Price           string `json:"price"           binding:"required,numeric" example:"350"`
	Category        string `json:"category"        binding:"required" example:"Starters"`
	IsVegetarian    bool   `json:"isVegetarian"`
	IsSpicy         bool   `json:"isSpicy"`
	PreparationTime int    `json:"preparationTime" binding:"omitempty,min=5,max=120" example:"15"`
}

// ItemUpdateRequest payload of partial menu item update. Nil fields are left untouched.
// swagger:model ItemUpdateRequest
type ItemUpdateRequest struct {
	Name            *string `json:"name"            binding:"omitempty,min=1,max=100"`
	Description     *string `json:"description"`
	Price           *string `json:"price"           binding:"omitempty,numeric"`
	Category        *string `json:"category"`
	IsOutOfStock    *bool   `json:"isOutOfStock"`
	IsVegetarian    *bool   `json:"isVegetarian"`
	IsSpicy         *bool   `json:"isSpicy"`
	PreparationTime *int    `json:"preparationTime" binding:"omitempty,min=5,max=120"`
	IsActive        *bool   `json:"isActive"`
}
