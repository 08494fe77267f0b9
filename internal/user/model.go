package user

import "time"

const (
	RoleCustomer        = "customer"
	RoleRestaurantOwner = "restaurant_owner"
)

// Address is one entry of a customer's address book.
type Address struct {
	ID        string `json:"id"        bson:"id"`
	Type      string `json:"type"      bson:"type"`
	Name      string `json:"name"      bson:"name"`
	Phone     string `json:"phone"     bson:"phone"`
	Address   string `json:"address"   bson:"address"`
	City      string `json:"city"      bson:"city"`
	State     string `json:"state"     bson:"state"`
	Pincode   string `json:"pincode"   bson:"pincode"`
	IsDefault bool   `json:"isDefault" bson:"is_default"`
}

type User struct {
	ID           string    `json:"id"        bson:"_id"`
	Name         string    `json:"name"      bson:"name"`
	Email        string    `json:"email"     bson:"email"`
	Phone        string    `json:"phone"     bson:"phone"`
	PasswordHash string    `json:"-"         bson:"password_hash"`
	Role         string    `json:"role"      bson:"role"`
	IsActive     bool      `json:"isActive"  bson:"is_active"`
	Addresses    []Address `json:"addresses" bson:"addresses"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// RegisterRequest payload of registration.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=50" example:"Asha Rao"`
	Email    string `json:"email"    binding:"required,email"        example:"asha@example.com"`
	Phone    string `json:"phone"    binding:"required,min=10,max=15" example:"9876543210"`
	Password string `json:"password" binding:"required,min=6"        example:"secret123"`
	Role     string `json:"role"     binding:"omitempty,oneof=customer restaurant_owner" example:"customer"`
}

// LoginRequest payload of login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AddressRequest payload of address create/update.
// swagger:model AddressRequest
type AddressRequest struct {
	Type      string `json:"type"      binding:"omitempty,oneof=home work other" example:"home"`
	Name      string `json:"name"      binding:"required" example:"Asha Rao"`
	Phone     string `json:"phone"     binding:"required" example:"9876543210"`
	Address   string `json:"address"   binding:"required" example:"12 MG Road"`
	City      string `json:"city"      binding:"required" example:"Bengaluru"`
	State     string `json:"state"     binding:"required" example:"KA"`
	Pincode   string `json:"pincode"   binding:"required,len=6,numeric" example:"560001"`
	IsDefault bool   `json:"isDefault"`
}

// ProfileRequest payload of profile update; empty fields are left unchanged.
// swagger:model ProfileRequest
type ProfileRequest struct {
	Name  string `json:"name"  binding:"omitempty,min=2,max=50" example:"Asha Rao"`
	Phone string `json:"phone" binding:"omitempty,min=10,max=15" example:"9876543210"`
}

// ChangePasswordRequest payload of password change.
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword"     binding:"required,min=6"`
}
