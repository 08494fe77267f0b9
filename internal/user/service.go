package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lucsky/cuid"

	"github.com/MikeMC777/foodorders/internal/apperr"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Register
func (s *Service) Register(ctx context.Context, in RegisterRequest) (*User, error) {
	role := in.Role
	if role == "" {
		role = RoleCustomer
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now().UTC()
	u := &User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		Addresses:    []Address{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, ErrAlreadyExist) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks the credentials; unknown email and wrong password look the same.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if !u.IsActive {
		return nil, ErrInactive
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Get loads a user by id; the bearer middleware calls it on every request.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// UpdateProfile changes name and phone; blank fields keep their value.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileRequest) (*User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		u.Name = name
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword re-hashes the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID string, in ChangePasswordRequest) error {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(u.PasswordHash, in.CurrentPassword) {
		return ErrWrongPassword
	}
	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = hash
	return s.save(ctx, u)
}

func (s *Service) Addresses(ctx context.Context, userID string) ([]Address, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Addresses, nil
}

// FindAddress returns a copy of one address-book entry.
func (s *Service) FindAddress(ctx context.Context, userID, addressID string) (Address, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return Address{}, err
	}
	for _, a := range u.Addresses {
		if a.ID == addressID {
			return a, nil
		}
	}
	return Address{}, ErrAddressNotFound
}

// AddAddress appends an address. The first address, or one flagged default,
// becomes the only default.
func (s *Service) AddAddress(ctx context.Context, userID string, in AddressRequest) (*Address, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	isDefault := in.IsDefault || len(u.Addresses) == 0
	if isDefault {
		clearDefault(u.Addresses)
	}
	a := fromRequest(cuid.New(), in)
	a.IsDefault = isDefault
	u.Addresses = append(u.Addresses, a)
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) UpdateAddress(ctx context.Context, userID, addressID string, in AddressRequest) (*Address, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := indexOf(u.Addresses, addressID)
	if idx < 0 {
		return nil, ErrAddressNotFound
	}
	if in.IsDefault {
		clearDefault(u.Addresses)
	}
	a := fromRequest(addressID, in)
	a.IsDefault = in.IsDefault
	u.Addresses[idx] = a
	if err := s.save(ctx, u); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAddress removes an address; deleting the default promotes the first remaining one.
func (s *Service) DeleteAddress(ctx context.Context, userID, addressID string) error {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	idx := indexOf(u.Addresses, addressID)
	if idx < 0 {
		return ErrAddressNotFound
	}
	wasDefault := u.Addresses[idx].IsDefault
	u.Addresses = append(u.Addresses[:idx], u.Addresses[idx+1:]...)
	if wasDefault && len(u.Addresses) > 0 {
		u.Addresses[0].IsDefault = true
	}
	return s.save(ctx, u)
}

func (s *Service) save(ctx context.Context, u *User) error {
	u.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// RequireRole is used by the HTTP layer's role guards.
func RequireRole(u *User, role string) error {
	if u == nil || u.Role != role {
		return apperr.Forbidden("InsufficientRole", "access denied - insufficient permissions")
	}
	return nil
}

func fromRequest(id string, in AddressRequest) Address {
	typ := in.Type
	if typ == "" {
		typ = "home"
	}
	return Address{
		ID:      id,
		Type:    typ,
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
		City:    in.City,
		State:   in.State,
		Pincode: in.Pincode,
	}
}

func clearDefault(as []Address) {
	for i := range as {
		as[i].IsDefault = false
	}
}

func indexOf(as []Address, id string) int {
	for i, a := range as {
		if a.ID == id {
			return i
		}
	}
	return -1
}
