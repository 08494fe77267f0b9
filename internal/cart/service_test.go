package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/foodorders/internal/cart"
	"github.com/MikeMC777/foodorders/internal/catalog"
	"github.com/MikeMC777/foodorders/internal/store/memory"
)

type fixture struct {
	store *memory.Store
	svc   *cart.Service
	now   time.Time
	// items
	paneer, roti, soldOut, other *catalog.Item
	spice, grill                 *catalog.Restaurant
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{store: memory.New(), now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}

	f.spice = &catalog.Restaurant{ID: "r-spice", OwnerID: "o-1", Name: "Spice Route", IsActive: true, DeliveryFee: dec("30"), MinimumOrder: dec("100")}
	f.grill = &catalog.Restaurant{ID: "r-grill", OwnerID: "o-2", Name: "Grill House", IsActive: true, DeliveryFee: dec("40"), MinimumOrder: dec("0")}
	require.NoError(t, f.store.SaveRestaurant(ctx, f.spice))
	require.NoError(t, f.store.SaveRestaurant(ctx, f.grill))

	f.paneer = &catalog.Item{ID: "i-paneer", RestaurantID: "r-spice", Name: "Paneer Tikka", Price: dec("350"), IsActive: true}
	f.roti = &catalog.Item{ID: "i-roti", RestaurantID: "r-spice", Name: "Butter Roti", Price: dec("30"), IsActive: true}
	f.soldOut = &catalog.Item{ID: "i-biryani", RestaurantID: "r-spice", Name: "Biryani", Price: dec("280"), IsActive: true, IsOutOfStock: true}
	f.other = &catalog.Item{ID: "i-burger", RestaurantID: "r-grill", Name: "Burger", Price: dec("199"), IsActive: true}
	for _, it := range []*catalog.Item{f.paneer, f.roti, f.soldOut, f.other} {
		require.NoError(t, f.store.CreateItem(ctx, it))
	}

	f.svc = cart.NewService(f.store, f.store, 24*time.Hour).WithClock(func() time.Time { return f.now })
	return f
}

func TestAddItem_WorkedExample(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "c-1", "i-paneer", 1, "")
	require.NoError(t, err)
	v, err := f.svc.AddItem(ctx, "c-1", "i-roti", 2, "")
	require.NoError(t, err)

	require.Len(t, v.Items, 2)
	assertMoney(t, "410", v.Subtotal)
	assertMoney(t, "30", v.DeliveryFee)
	assertMoney(t, "20.5", v.Tax)
	assertMoney(t, "460.5", v.TotalAmount)
	assert.Equal(t, 3, v.ItemCount)
	assert.Equal(t, "r-spice", v.RestaurantID)
	require.NotNil(t, v.ExpiresAt)
	assert.Equal(t, f.now.Add(24*time.Hour), *v.ExpiresAt)
}

func TestAddItem_MergesQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "c-1", "i-roti", 2, "extra butter")
	require.NoError(t, err)
	v, err := f.svc.AddItem(ctx, "c-1", "i-roti", 3, "")
	require.NoError(t, err)

	require.Len(t, v.Items, 1)
	assert.Equal(t, 5, v.Items[0].Quantity)
	assertMoney(t, "150", v.Items[0].TotalPrice)
	assert.Equal(t, "extra butter", v.Items[0].SpecialInstructions)

	v, err = f.svc.AddItem(ctx, "c-1", "i-roti", 1, "no butter")
	require.NoError(t, err)
	assert.Equal(t, "no butter", v.Items[0].SpecialInstructions)
	assertMoney(t, "180", v.Subtotal)
}

func TestAddItem_PriceSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "c-1", "i-paneer", 1, "")
	require.NoError(t, err)

	f.paneer.Price = dec("999")
	require.NoError(t, f.store.UpdateItem(ctx, f.paneer))

	v, err := f.svc.View(ctx, "c-1")
	require.NoError(t, err)
	assertMoney(t, "350", v.Items[0].Price)
}

func TestAddItem_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "c-1", "i-roti", 0, "")
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = f.svc.AddItem(ctx, "c-1", "nope", 1, "")
	assert.ErrorIs(t, err, catalog.ErrItemNotFound)

	_, err = f.svc.AddItem(ctx, "c-1", "i-biryani", 1, "")
	assert.ErrorIs(t, err, cart.ErrItemUnavailable)
	assert.Contains(t, err.Error(), "Biryani")

	f.store.DeleteRestaurant(ctx, "r-grill")
	_, err = f.svc.AddItem(ctx, "c-1", "i-burger", 1, "")
	assert.ErrorIs(t, err, catalog.ErrRestaurantNotFound)

	_, err = f.store.GetCart(ctx, "c-1")
	assert.ErrorIs(t, err, cart.ErrNotFound)
}

func TestAddItem_RestaurantMismatchLeavesCartAlone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "c-1", "i-paneer", 1, "")
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, "c-1", "i-burger", 1, "")
	require.ErrorIs(t, err, cart.ErrRestaurantMismatch)

	c, err := f.store.GetCart(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "i-paneer", c.Items[0].ItemID)
}

func TestAddItem_ExpiredCartIsReplaced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.AddItem(ctx, "c-1", "i-paneer", 1, "")
	require.NoError(t, err)

	f.now = f.now.Add(25 * time.Hour)
	v, err := f.svc.AddItem(ctx, "c-1", "i-burger", 2, "")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, v.ID)
	assert.Equal(t, "r-grill", v.RestaurantID)
	require.Len(t, v.Items, 1)
	assertMoney(t, "40", v.DeliveryFee)
	assertMoney(t, "398", v.Subtotal)
}

func TestUpdateQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateQuantity(ctx, "c-1", "i-roti", 2)
	assert.ErrorIs(t, err, cart.ErrCartNotFound)

	_, err = f.svc.AddItem(ctx, "c-1", "i-roti", 1, "")
	require.NoError(t, err)

	_, err = f.svc.UpdateQuantity(ctx, "c-1", "i-roti", 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = f.svc.UpdateQuantity(ctx, "c-1", "i-paneer", 2)
	assert.ErrorIs(t, err, cart.ErrItemNotInCart)

	v, err := f.svc.UpdateQuantity(ctx, "c-1", "i-roti", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Items[0].Quantity)
	assertMoney(t, "120", v.Subtotal)
	assertMoney(t, "6", v.Tax)
	assertMoney(t, "156", v.TotalAmount)

	f.roti.IsOutOfStock = true
	require.NoError(t, f.store.UpdateItem(ctx, f.roti))
	_, err = f.svc.UpdateQuantity(ctx, "c-1", "i-roti", 2)
	assert.ErrorIs(t, err, cart.ErrItemUnavailable)
}

func TestUpdateQuantity_ExpiredCartIsDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "c-1", "i-roti", 1, "")
	require.NoError(t, err)

	f.now = f.now.Add(24*time.Hour + time.Second)
	_, err = f.svc.UpdateQuantity(ctx, "c-1", "i-roti", 2)
	assert.ErrorIs(t, err, cart.ErrCartExpired)

	_, err = f.store.GetCart(ctx, "c-1")
	assert.ErrorIs(t, err, cart.ErrNotFound)
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "c-1", "i-paneer", 1, "")
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, "c-1", "i-roti", 2, "")
	require.NoError(t, err)

	v, err := f.svc.RemoveItem(ctx, "c-1", "i-paneer")
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assertMoney(t, "60", v.Subtotal)
	assertMoney(t, "3", v.Tax)
	assertMoney(t, "93", v.TotalAmount)

	_, err = f.svc.RemoveItem(ctx, "c-1", "i-paneer")
	assert.ErrorIs(t, err, cart.ErrItemNotInCart)

	_, err = f.svc.RemoveItem(ctx, "c-2", "i-paneer")
	assert.ErrorIs(t, err, cart.ErrCartNotFound)
}

func TestClear_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Clear(ctx, "c-1"))

	_, err := f.svc.AddItem(ctx, "c-1", "i-roti", 1, "")
	require.NoError(t, err)
	require.NoError(t, f.svc.Clear(ctx, "c-1"))
	require.NoError(t, f.svc.Clear(ctx, "c-1"))

	v, err := f.svc.View(ctx, "c-1")
	require.NoError(t, err)
	assert.Empty(t, v.Items)
	assert.True(t, v.TotalAmount.IsZero())
}

func TestView_EmptyProjection(t *testing.T) {
	f := newFixture(t)

	v, err := f.svc.View(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, v.Items)
	assert.Empty(t, v.Items)
	assert.Zero(t, v.ItemCount)
	assert.Nil(t, v.ExpiresAt)
	for _, m := range []decimal.Decimal{v.Subtotal, v.DeliveryFee, v.Tax, v.TotalAmount} {
		assert.True(t, m.IsZero())
	}
}

func TestView_ExpiredIsEvictedIdempotently(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "c-1", "i-roti", 1, "")
	require.NoError(t, err)

	f.now = f.now.Add(48 * time.Hour)
	for i := 0; i < 2; i++ {
		v, err := f.svc.View(ctx, "c-1")
		require.NoError(t, err)
		assert.Empty(t, v.Items)
		assert.True(t, v.TotalAmount.IsZero())
	}
	_, err = f.store.GetCart(ctx, "c-1")
	assert.ErrorIs(t, err, cart.ErrNotFound)
}

func TestView_DropsUnavailableLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "c-1", "i-paneer", 1, "")
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, "c-1", "i-roti", 2, "")
	require.NoError(t, err)

	f.paneer.IsOutOfStock = true
	require.NoError(t, f.store.UpdateItem(ctx, f.paneer))

	v, err := f.svc.View(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "i-roti", v.Items[0].ItemID)
	assertMoney(t, "60", v.Subtotal)
	assertMoney(t, "93", v.TotalAmount)

	stored, err := f.store.GetCart(ctx, "c-1")
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assertMoney(t, "93", stored.TotalAmount)

	ok, err := f.store.DeleteItem(ctx, "r-spice", "i-roti")
	require.NoError(t, err)
	require.True(t, ok)
	v, err = f.svc.View(ctx, "c-1")
	require.NoError(t, err)
	assert.Empty(t, v.Items)
	assertMoney(t, "30", v.TotalAmount)
}

func TestTotalsIdentityAfterEveryMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	check := func(v cart.View) {
		t.Helper()
		sum := decimal.Zero
		for _, it := range v.Items {
			assert.True(t, it.TotalPrice.Equal(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))))
			sum = sum.Add(it.TotalPrice)
		}
		assert.True(t, v.Subtotal.Equal(sum))
		assert.True(t, v.Tax.Equal(sum.Mul(dec("0.05"))))
		assert.True(t, v.TotalAmount.Equal(v.Subtotal.Add(v.DeliveryFee).Add(v.Tax)))
	}

	v, err := f.svc.AddItem(ctx, "c-1", "i-paneer", 3, "")
	require.NoError(t, err)
	check(v)
	v, err = f.svc.AddItem(ctx, "c-1", "i-roti", 7, "")
	require.NoError(t, err)
	check(v)
	v, err = f.svc.UpdateQuantity(ctx, "c-1", "i-paneer", 1)
	require.NoError(t, err)
	check(v)
	v, err = f.svc.RemoveItem(ctx, "c-1", "i-roti")
	require.NoError(t, err)
	check(v)
	v, err = f.svc.View(ctx, "c-1")
	require.NoError(t, err)
	check(v)
}

func TestCleanExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "c-1", "i-roti", 1, "")
	require.NoError(t, err)
	f.now = f.now.Add(12 * time.Hour)
	_, err = f.svc.AddItem(ctx, "c-2", "i-roti", 1, "")
	require.NoError(t, err)

	f.now = f.now.Add(13 * time.Hour)
	n, err := f.svc.CleanExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = f.store.GetCart(ctx, "c-2")
	assert.NoError(t, err)
}

// racyRepo loses the first n save races.
type racyRepo struct {
	*memory.Store
	failures int
}

func (r *racyRepo) SaveCart(ctx context.Context, c *cart.Cart) error {
	if r.failures > 0 {
		r.failures--
		return cart.ErrVersionConflict
	}
	return r.Store.SaveCart(ctx, c)
}

func TestAddItem_RetriesVersionConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	repo := &racyRepo{Store: f.store, failures: 2}
	svc := cart.NewService(repo, f.store, 0)
	v, err := svc.AddItem(ctx, "c-1", "i-roti", 1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, v.ItemCount)

	repo.failures = 3
	_, err = svc.AddItem(ctx, "c-1", "i-roti", 1, "")
	assert.ErrorIs(t, err, cart.ErrCartConflict)

	c, err := f.store.GetCart(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Items[0].Quantity)
}
