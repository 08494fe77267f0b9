package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/foodorders/internal/catalog"
	"github.com/MikeMC777/foodorders/internal/store/memory"
	"github.com/MikeMC777/foodorders/internal/user"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	users := user.NewService(st)
	menus := catalog.NewService(st)

	res, err := Run(ctx, users, menus, Options{Restaurants: 2, ItemsPerRestaurant: 3, Customers: 2, Password: "secret123"})
	require.NoError(t, err)

	assert.Len(t, res.OwnerEmails, 2)
	assert.Len(t, res.RestaurantIDs, 2)
	assert.Equal(t, 6, res.Items)
	require.Len(t, res.CustomerEmails, 2)

	for _, id := range res.RestaurantIDs {
		items, err := menus.Menu(ctx, id)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	}

	c, err := users.Authenticate(ctx, res.CustomerEmails[0], "secret123")
	require.NoError(t, err)
	require.Len(t, c.Addresses, 1)
	assert.True(t, c.Addresses[0].IsDefault)
	assert.Len(t, c.Addresses[0].Pincode, 6)
	assert.Len(t, c.Phone, 10)
}
