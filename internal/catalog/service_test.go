package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/foodorders/internal/catalog"
	"github.com/MikeMC777/foodorders/internal/store/memory"
)

func ptr[T any](v T) *T { return &v }

func newOwnerMenu(t *testing.T) (*catalog.Service, *catalog.Restaurant) {
	t.Helper()
	svc := catalog.NewService(memory.New())
	r, err := svc.SaveForOwner(context.Background(), "owner-1", catalog.RestaurantRequest{
		Name: "Spice Route", Phone: "9876500000", DeliveryFee: "30", MinimumOrder: "100",
		Address: catalog.Address{Street: "1 MG Road", City: "Pune", State: "MH", Pincode: "411001"},
	})
	require.NoError(t, err)
	return svc, r
}

func TestSaveForOwner_CreatesThenUpdates(t *testing.T) {
	svc, r := newOwnerMenu(t)
	ctx := context.Background()

	assert.True(t, r.IsActive)
	assert.Equal(t, 5, r.DeliveryRadius)
	assert.Equal(t, "30", r.DeliveryFee.String())

	again, err := svc.SaveForOwner(ctx, "owner-1", catalog.RestaurantRequest{Name: "Spice Route II", DeliveryFee: "0"})
	require.NoError(t, err)
	assert.Equal(t, r.ID, again.ID)
	assert.Equal(t, "Spice Route II", again.Name)

	_, err = svc.SaveForOwner(ctx, "owner-1", catalog.RestaurantRequest{Name: "x", DeliveryFee: "-5"})
	assert.ErrorIs(t, err, catalog.ErrInvalidAmount)
}

func TestMenu_HidesUnavailable(t *testing.T) {
	svc, r := newOwnerMenu(t)
	ctx := context.Background()

	roti, err := svc.AddItem(ctx, "owner-1", catalog.ItemRequest{Name: "Roti", Price: "30", Category: "Breads"})
	require.NoError(t, err)
	assert.Equal(t, 15, roti.PreparationTime)
	naan, err := svc.AddItem(ctx, "owner-1", catalog.ItemRequest{Name: "Naan", Price: "45", Category: "Breads"})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, "owner-1", naan.ID, catalog.ItemUpdateRequest{IsOutOfStock: ptr(true)})
	require.NoError(t, err)

	items, err := svc.Menu(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, roti.ID, items[0].ID)

	all, err := svc.OwnerMenu(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Menu(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrRestaurantNotFound)
}

func TestItems_OwnedByRestaurant(t *testing.T) {
	svc, _ := newOwnerMenu(t)
	ctx := context.Background()

	it, err := svc.AddItem(ctx, "owner-1", catalog.ItemRequest{Name: "Roti", Price: "30", Category: "Breads"})
	require.NoError(t, err)

	_, err = svc.SaveForOwner(ctx, "owner-2", catalog.RestaurantRequest{Name: "Grill House"})
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, "owner-2", it.ID, catalog.ItemUpdateRequest{Price: ptr("1")})
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)
	assert.ErrorIs(t, svc.DeleteItem(ctx, "owner-2", it.ID), catalog.ErrItemNotFound)

	_, err = svc.AddItem(ctx, "nobody", catalog.ItemRequest{Name: "x", Price: "1", Category: "y"})
	assert.ErrorIs(t, err, catalog.ErrRestaurantNotFound)

	updated, err := svc.UpdateItem(ctx, "owner-1", it.ID, catalog.ItemUpdateRequest{Price: ptr("35.50")})
	require.NoError(t, err)
	assert.Equal(t, "35.5", updated.Price.String())

	require.NoError(t, svc.DeleteItem(ctx, "owner-1", it.ID))
	assert.ErrorIs(t, svc.DeleteItem(ctx, "owner-1", it.ID), catalog.ErrItemNotFound)
}

func TestParseAmount(t *testing.T) {
	d, err := catalog.ParseAmount("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = catalog.ParseAmount("12.75")
	require.NoError(t, err)
	assert.Equal(t, "12.75", d.String())

	for _, bad := range []string{"abc", "-1"} {
		_, err := catalog.ParseAmount(bad)
		assert.ErrorIs(t, err, catalog.ErrInvalidAmount, bad)
	}
}
