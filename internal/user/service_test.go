package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/foodorders/internal/store/memory"
	"github.com/MikeMC777/foodorders/internal/user"
)

func addr(name string, isDefault bool) user.AddressRequest {
	return user.AddressRequest{Name: name, Phone: "9876543210", Address: "12 MG Road", City: "Pune",
		State: "MH", Pincode: "411001", IsDefault: isDefault}
}

func registered(t *testing.T) (*user.Service, *user.User) {
	t.Helper()
	svc := user.NewService(memory.New())
	u, err := svc.Register(context.Background(), user.RegisterRequest{
		Name: "Asha Rao", Email: "  Asha@Example.com ", Phone: "9876543210", Password: "secret123",
	})
	require.NoError(t, err)
	return svc, u
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, u := registered(t)
	ctx := context.Background()

	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, user.RoleCustomer, u.Role)
	assert.NotEqual(t, "secret123", u.PasswordHash)

	_, err := svc.Register(ctx, user.RegisterRequest{Name: "Other", Email: "asha@example.com", Password: "x12345"})
	assert.ErrorIs(t, err, user.ErrEmailTaken)

	got, err := svc.Authenticate(ctx, "ASHA@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "asha@example.com", "wrong")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestAddressBook_DefaultRules(t *testing.T) {
	svc, u := registered(t)
	ctx := context.Background()

	home, err := svc.AddAddress(ctx, u.ID, addr("home", false))
	require.NoError(t, err)
	assert.True(t, home.IsDefault, "first address becomes default")
	assert.Equal(t, "home", home.Type)

	work, err := svc.AddAddress(ctx, u.ID, addr("work", true))
	require.NoError(t, err)
	assert.True(t, work.IsDefault)

	as, err := svc.Addresses(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, as, 2)
	assert.False(t, as[0].IsDefault, "setting a new default clears the old one")

	require.NoError(t, svc.DeleteAddress(ctx, u.ID, work.ID))
	as, err = svc.Addresses(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, as, 1)
	assert.True(t, as[0].IsDefault, "deleting the default promotes the first remaining")

	_, err = svc.UpdateAddress(ctx, u.ID, "missing", addr("x", false))
	assert.ErrorIs(t, err, user.ErrAddressNotFound)

	found, err := svc.FindAddress(ctx, u.ID, home.ID)
	require.NoError(t, err)
	assert.Equal(t, "home", found.Name)
	_, err = svc.FindAddress(ctx, u.ID, "missing")
	assert.ErrorIs(t, err, user.ErrAddressNotFound)
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, user.RequireRole(&user.User{Role: user.RoleCustomer}, user.RoleCustomer))
	assert.Error(t, user.RequireRole(&user.User{Role: user.RoleCustomer}, user.RoleRestaurantOwner))
	assert.Error(t, user.RequireRole(nil, user.RoleCustomer))
}

func TestUpdateProfile(t *testing.T) {
	svc, u := registered(t)
	ctx := context.Background()

	got, err := svc.UpdateProfile(ctx, u.ID, user.ProfileRequest{Name: "  Asha R  "})
	require.NoError(t, err)
	assert.Equal(t, "Asha R", got.Name)
	assert.Equal(t, "9876543210", got.Phone, "blank phone is left alone")

	_, err = svc.UpdateProfile(ctx, u.ID, user.ProfileRequest{Phone: "9000000001"})
	require.NoError(t, err)
	stored, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha R", stored.Name)
	assert.Equal(t, "9000000001", stored.Phone)

	_, err = svc.UpdateProfile(ctx, "missing", user.ProfileRequest{Name: "X Y"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	svc, u := registered(t)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, u.ID, user.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "fresh-pass"})
	assert.ErrorIs(t, err, user.ErrWrongPassword)
	_, err = svc.Authenticate(ctx, u.Email, "secret123")
	require.NoError(t, err, "failed change keeps the old password")

	require.NoError(t, svc.ChangePassword(ctx, u.ID, user.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "fresh-pass"}))
	_, err = svc.Authenticate(ctx, u.Email, "secret123")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, u.Email, "fresh-pass")
	assert.NoError(t, err)
}
