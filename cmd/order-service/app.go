package main

import (
	"context"
	"fmt"
	"log"

	"github.com/MikeMC777/foodorders/internal/auth"
	"github.com/MikeMC777/foodorders/internal/cart"
	"github.com/MikeMC777/foodorders/internal/catalog"
	"github.com/MikeMC777/foodorders/internal/config"
	"github.com/MikeMC777/foodorders/internal/notify"
	"github.com/MikeMC777/foodorders/internal/order"
	"github.com/MikeMC777/foodorders/internal/sequence"
	"github.com/MikeMC777/foodorders/internal/store/memory"
	"github.com/MikeMC777/foodorders/internal/store/mongo"
	"github.com/MikeMC777/foodorders/internal/store/postgres"
	"github.com/MikeMC777/foodorders/internal/user"
)

// store is what every backend implements.
type store interface {
	user.Repository
	catalog.Repository
	cart.Repository
	order.Repository
	Close() error
}

type app struct {
	cfg    config.Config
	store  store
	users  *user.Service
	menus  *catalog.Service
	carts  *cart.Service
	orders *order.Service
	tokens *auth.Issuer
	hub    *notify.Hub

	closers []func() error
}

func openStore(ctx context.Context, cfg config.Config) (store, error) {
	switch cfg.StoreDriver {
	case "postgres":
		s, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "mongo":
		s, err := mongo.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "memory", "":
		log.Printf("[store] using in-memory store, data is lost on exit")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, store: st, closers: []func() error{st.Close}}
	if err := a.wire(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(ctx context.Context) error {
	cfg := a.cfg
	a.users = user.NewService(a.store)
	a.menus = catalog.NewService(a.store)
	a.carts = cart.NewService(a.store, a.store, cfg.CartTTL)
	a.tokens = auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	a.hub = notify.NewHub(cfg.CORSOrigins)

	notifiers := notify.Multi{notify.Log{}, a.hub}
	if cfg.KafkaEnabled {
		k, err := notify.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, k.Close)
		notifiers = append(notifiers, k)
	}

	opts := []order.Option{order.WithNotifier(notifiers)}
	if cfg.SequenceDriver == "redis" {
		seq, err := sequence.Dial(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, seq.Close)
		opts = append(opts, order.WithSequencer(seq))
	}
	a.orders = order.NewService(a.store, a.store, a.store, a.users, opts...)
	return nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
