// Package memory is a process-local store. It backs tests and the default
// STORE_DRIVER=memory mode; one mutex makes every operation atomic.
package memory

import (
	"sync"

	"github.com/MikeMC777/foodorders/internal/cart"
	"github.com/MikeMC777/foodorders/internal/catalog"
	"github.com/MikeMC777/foodorders/internal/order"
	"github.com/MikeMC777/foodorders/internal/user"
)

type Store struct {
	mu sync.RWMutex

	users   map[string]*user.User
	byEmail map[string]string

	restaurants map[string]*catalog.Restaurant
	byOwner     map[string]string
	items       map[string]*catalog.Item

	carts map[string]*cart.Cart // by customer

	orders   map[string]*order.Order
	numbers  map[string]string // order number -> id
	counters map[string]int64  // day -> last sequence
}

func New() *Store {
	return &Store{
		users:       map[string]*user.User{},
		byEmail:     map[string]string{},
		restaurants: map[string]*catalog.Restaurant{},
		byOwner:     map[string]string{},
		items:       map[string]*catalog.Item{},
		carts:       map[string]*cart.Cart{},
		orders:      map[string]*order.Order{},
		numbers:     map[string]string{},
		counters:    map[string]int64{},
	}
}

func (s *Store) Close() error { return nil }
