package user

import (
	"context"
	"errors"

	"github.com/MikeMC777/foodorders/internal/apperr"
)

var (
	// Repository sentinels.
	ErrNotFound     = errors.New("user not found")
	ErrAlreadyExist = errors.New("user already exists")

	ErrEmailTaken         = apperr.Conflict("EmailTaken", "user with this email already exists")
	ErrInvalidCredentials = apperr.Unauthorized("InvalidCredentials", "invalid credentials")
	ErrInactive           = apperr.Unauthorized("AccountInactive", "account is deactivated")
	ErrUserNotFound       = apperr.NotFound("UserNotFound", "user not found")
	ErrAddressNotFound    = apperr.NotFound("AddressNotFound", "delivery address not found")
	ErrWrongPassword      = apperr.State("IncorrectPassword", "current password is incorrect")
)

type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// UpdateUser replaces the stored user, address book included.
	UpdateUser(ctx context.Context, u *User) error
}
