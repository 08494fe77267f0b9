// Package seed fills a store with demo owners, restaurants, menus and
// customers for local runs.
package seed

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
	"github.com/schollz/progressbar/v3"

	"github.com/MikeMC777/foodorders/internal/catalog"
	"github.com/MikeMC777/foodorders/internal/user"
)

type Options struct {
	Restaurants        int
	ItemsPerRestaurant int
	Customers          int
	// Password shared by every seeded account.
	Password string
	// Progress is written here; nil discards it.
	Progress io.Writer
}

func DefaultOptions() Options {
	return Options{Restaurants: 5, ItemsPerRestaurant: 12, Customers: 10, Password: "password123"}
}

// Result lists the seeded logins.
type Result struct {
	OwnerEmails    []string
	CustomerEmails []string
	RestaurantIDs  []string
	Items          int
}

var (
	cuisines   = []string{"Indian", "Chinese", "Italian", "Mexican", "Thai", "Street Food", "Cafe", "Continental"}
	categories = []string{"Starters", "Mains", "Breads", "Rice", "Desserts", "Beverages"}
	dishes     = []string{"Paneer Tikka", "Butter Chicken", "Dal Makhani", "Veg Biryani", "Garlic Naan", "Masala Dosa",
		"Hakka Noodles", "Margherita Pizza", "Penne Arrabbiata", "Pad Thai", "Green Curry", "Tacos", "Burrito Bowl",
		"Gulab Jamun", "Brownie", "Cold Coffee", "Mango Lassi", "Spring Rolls", "Chole Bhature", "Fried Rice"}
)

// Run registers Restaurants owners each with a restaurant and menu, then
// Customers customers each with one default address.
func Run(ctx context.Context, users *user.Service, menus *catalog.Service, opts Options) (Result, error) {
	out := opts.Progress
	if out == nil {
		out = io.Discard
	}
	fake := faker.New()
	total := opts.Restaurants*(2+opts.ItemsPerRestaurant) + opts.Customers*2
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("seeding"),
		progressbar.OptionShowCount(),
	)

	var res Result
	for i := 0; i < opts.Restaurants; i++ {
		owner, err := users.Register(ctx, user.RegisterRequest{
			Name:     fake.Person().Name(),
			Email:    "owner." + cuid.Slug() + "@example.com",
			Phone:    phone(fake),
			Password: opts.Password,
			Role:     user.RoleRestaurantOwner,
		})
		if err != nil {
			return res, fmt.Errorf("register owner: %w", err)
		}
		res.OwnerEmails = append(res.OwnerEmails, owner.Email)
		_ = bar.Add(1)

		r, err := menus.SaveForOwner(ctx, owner.ID, catalog.RestaurantRequest{
			Name:        fake.Company().Name(),
			Description: fake.Lorem().Sentence(8),
			Address: catalog.Address{
				Street:  fake.Address().StreetAddress(),
				City:    fake.Address().City(),
				State:   fake.Address().State(),
				Pincode: pincode(fake),
			},
			Phone:          phone(fake),
			Cuisine:        []string{fake.RandomStringElement(cuisines), fake.RandomStringElement(cuisines)},
			DeliveryRadius: fake.IntBetween(3, 15),
			DeliveryFee:    strconv.Itoa(fake.IntBetween(0, 6) * 10),
			MinimumOrder:   strconv.Itoa(fake.IntBetween(1, 4) * 50),
		})
		if err != nil {
			return res, fmt.Errorf("save restaurant: %w", err)
		}
		res.RestaurantIDs = append(res.RestaurantIDs, r.ID)
		_ = bar.Add(1)

		for j := 0; j < opts.ItemsPerRestaurant; j++ {
			_, err := menus.AddItem(ctx, owner.ID, catalog.ItemRequest{
				Name:            fake.RandomStringElement(dishes),
				Description:     fake.Lorem().Sentence(10),
				Price:           strconv.Itoa(fake.IntBetween(6, 60) * 10),
				Category:        fake.RandomStringElement(categories),
				IsVegetarian:    fake.Bool(),
				IsSpicy:         fake.Bool(),
				PreparationTime: fake.IntBetween(5, 45),
			})
			if err != nil {
				return res, fmt.Errorf("add item: %w", err)
			}
			res.Items++
			_ = bar.Add(1)
		}
	}

	for i := 0; i < opts.Customers; i++ {
		name := fake.Person().Name()
		c, err := users.Register(ctx, user.RegisterRequest{
			Name:     name,
			Email:    "customer." + cuid.Slug() + "@example.com",
			Phone:    phone(fake),
			Password: opts.Password,
		})
		if err != nil {
			return res, fmt.Errorf("register customer: %w", err)
		}
		res.CustomerEmails = append(res.CustomerEmails, c.Email)
		_ = bar.Add(1)

		if _, err := users.AddAddress(ctx, c.ID, user.AddressRequest{
			Type:    "home",
			Name:    name,
			Phone:   c.Phone,
			Address: fake.Address().StreetAddress(),
			City:    fake.Address().City(),
			State:   fake.Address().State(),
			Pincode: pincode(fake),
		}); err != nil {
			return res, fmt.Errorf("add address: %w", err)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	log.Printf("[seed] restaurants=%d items=%d customers=%d", len(res.RestaurantIDs), res.Items, len(res.CustomerEmails))
	return res, nil
}

// ten digits, leading 6-9
func phone(f faker.Faker) string {
	return fmt.Sprintf("%d%09d", f.IntBetween(6, 9), f.IntBetween(0, 999999999))
}

func pincode(f faker.Faker) string {
	return strconv.Itoa(f.IntBetween(110000, 855999))
}
