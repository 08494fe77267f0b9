package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/foodorders/internal/catalog"
	"github.com/MikeMC777/foodorders/internal/pricing"
)

// Item is a cart line. Name and Price are copied from the catalog when the
// line is first added and are not refreshed afterwards.
type Item struct {
	ItemID              string          `json:"item"                          bson:"item_id"`
	Name                string          `json:"name"                          bson:"name"`
	Price               decimal.Decimal `json:"price"                         bson:"price"`
	Quantity            int             `json:"quantity"                      bson:"quantity"`
	SpecialInstructions string          `json:"specialInstructions,omitempty" bson:"special_instructions,omitempty"`
	TotalPrice          decimal.Decimal `json:"totalPrice"                    bson:"total_price"`
}

type Cart struct {
	ID             string `json:"id"         bson:"_id"`
	CustomerID     string `json:"customer"   bson:"customer_id"`
	RestaurantID   string `json:"restaurant" bson:"restaurant_id"`
	Items          []Item `json:"items"      bson:"items"`
	pricing.Totals `bson:",inline"`
	ExpiresAt      time.Time `json:"expiresAt" bson:"expires_at"`
	CreatedAt      time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updated_at"`
	// Version guards read-modify-write; 0 means never stored.
	Version int64 `json:"-" bson:"version"`
}

func newCart(id, customerID string, r *catalog.Restaurant, now time.Time, ttl time.Duration) *Cart {
	c := &Cart{
		ID:           id,
		CustomerID:   customerID,
		RestaurantID: r.ID,
		Items:        []Item{},
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
	c.Totals = pricing.Zero()
	c.DeliveryFee = r.DeliveryFee
	return c
}

func (c *Cart) Expired(now time.Time) bool { return c.ExpiresAt.Before(now) }

// Recalculate derives every total from the current lines.
func (c *Cart) Recalculate() {
	lines := make([]decimal.Decimal, len(c.Items))
	for i := range c.Items {
		c.Items[i].TotalPrice = pricing.LineTotal(c.Items[i].Price, c.Items[i].Quantity)
		lines[i] = c.Items[i].TotalPrice
	}
	c.Totals = pricing.Compute(lines, c.DeliveryFee)
}

func (c *Cart) index(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return i
		}
	}
	return -1
}

// add merges into an existing line (quantities add up) or appends a new one.
func (c *Cart) add(line Item) {
	if i := c.index(line.ItemID); i >= 0 {
		c.Items[i].Quantity += line.Quantity
		if line.SpecialInstructions != "" {
			c.Items[i].SpecialInstructions = line.SpecialInstructions
		}
	} else {
		c.Items = append(c.Items, line)
	}
	c.Recalculate()
}

func (c *Cart) setQuantity(i, qty int) {
	c.Items[i].Quantity = qty
	c.Recalculate()
}

func (c *Cart) remove(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.Recalculate()
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// View is what callers get back from every cart operation.
type View struct {
	ID             string `json:"id,omitempty"`
	RestaurantID   string `json:"restaurant,omitempty"`
	Items          []Item `json:"items"`
	pricing.Totals
	ItemCount int        `json:"itemCount"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func EmptyView() View {
	return View{Items: []Item{}, Totals: pricing.Zero()}
}

func Project(c *Cart) View {
	if c == nil {
		return EmptyView()
	}
	items := make([]Item, len(c.Items))
	copy(items, c.Items)
	exp := c.ExpiresAt
	return View{
		ID:           c.ID,
		RestaurantID: c.RestaurantID,
		Items:        items,
		Totals:       c.Totals,
		ItemCount:    c.ItemCount(),
		ExpiresAt:    &exp,
	}
}

// AddItemRequest payload of add-to-cart.
// swagger:model AddItemRequest
type AddItemRequest struct {
	ItemID              string `json:"itemId"              binding:"required"        example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity            *int   `json:"quantity"                                      example:"2"`
	SpecialInstructions string `json:"specialInstructions" binding:"omitempty,max=500"`
}

// UpdateItemRequest payload of quantity update.
// swagger:model UpdateItemRequest
type UpdateItemRequest struct {
	Quantity int `json:"quantity" example:"3"`
}
