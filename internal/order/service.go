package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MikeMC777/foodorders/internal/apperr"
	"github.com/MikeMC777/foodorders/internal/cart"
	"github.com/MikeMC777/foodorders/internal/catalog"
	"github.com/MikeMC777/foodorders/internal/notify"
	"github.com/MikeMC777/foodorders/internal/pricing"
	"github.com/MikeMC777/foodorders/internal/user"
)

const (
	maxNumberAttempts = 5
	maxStatusAttempts = 3

	defaultLimit = 10
	maxLimit     = 50
)

var (
	tracer = otel.Tracer("github.com/MikeMC777/foodorders/internal/order")

	ErrItemUnavailable = apperr.State("ItemUnavailable", "item is no longer available")
)

type Catalog interface {
	GetItem(ctx context.Context, id string) (*catalog.Item, error)
	GetRestaurant(ctx context.Context, id string) (*catalog.Restaurant, error)
	GetRestaurantByOwner(ctx context.Context, ownerID string) (*catalog.Restaurant, error)
}

type Carts interface {
	GetCart(ctx context.Context, customerID string) (*cart.Cart, error)
	DeleteCart(ctx context.Context, customerID string, version int64) error
}

type AddressBook interface {
	FindAddress(ctx context.Context, userID, addressID string) (user.Address, error)
}

type Service struct {
	repo      Repository
	carts     Carts
	catalog   Catalog
	addresses AddressBook
	seq       Sequencer
	notifier  notify.Notifier
	now       func() time.Time
}

type Option func(*Service)

func WithSequencer(seq Sequencer) Option    { return func(s *Service) { s.seq = seq } }
func WithNotifier(n notify.Notifier) Option { return func(s *Service) { s.notifier = n } }
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(repo Repository, carts Carts, cat Catalog, addrs AddressBook, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		carts:     carts,
		catalog:   cat,
		addresses: addrs,
		seq:       StoreSequencer(repo),
		notifier:  notify.Log{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateFromCart places an order from the customer's cart and removes the
// cart in the same store transaction.
func (s *Service) CreateFromCart(ctx context.Context, customerID string, in CheckoutRequest) (o *Order, err error) {
	ctx, span := tracer.Start(ctx, "order.CreateFromCart", trace.WithAttributes(attribute.String("customer.id", customerID)))
	defer func() { endSpan(span, err) }()

	method, err := paymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	c, err := s.carts.GetCart(ctx, customerID)
	if errors.Is(err, cart.ErrNotFound) {
		return nil, cart.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	now := s.now()
	if c.Expired(now) {
		if err := s.carts.DeleteCart(ctx, customerID, c.Version); err != nil {
			log.Printf("[order] customer=%s delete expired cart: %v", customerID, err)
		}
		return nil, cart.ErrCartExpired
	}
	if len(c.Items) == 0 {
		return nil, ErrCartEmpty
	}
	addr, err := s.deliveryAddress(ctx, customerID, in.DeliveryAddressID)
	if err != nil {
		return nil, err
	}
	r, err := s.restaurant(ctx, c.RestaurantID)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(c.Items))
	lines := make([]decimal.Decimal, 0, len(c.Items))
	for _, line := range c.Items {
		it, err := s.catalog.GetItem(ctx, line.ItemID)
		if errors.Is(err, catalog.ErrNotFound) || (err == nil && !it.Available()) {
			return nil, ErrItemUnavailable.Withf("%s is no longer available", line.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("get item: %w", err)
		}
		items = append(items, Item{
			ItemID:              line.ItemID,
			Name:                line.Name,
			Price:               line.Price,
			Quantity:            line.Quantity,
			TotalPrice:          line.TotalPrice,
			SpecialInstructions: line.SpecialInstructions,
		})
		lines = append(lines, line.TotalPrice)
	}
	totals := pricing.Compute(lines, c.DeliveryFee)
	if totals.TotalAmount.LessThan(r.MinimumOrder) {
		return nil, ErrMinimumOrderNotMet.Withf("minimum order amount is %s", r.MinimumOrder.StringFixed(2))
	}

	o = s.newOrder(customerID, r.ID, items, totals, addr, in.SpecialInstructions, method, now)
	err = s.insert(ctx, o, func(o *Order) error {
		return s.repo.CreateOrderFromCart(ctx, o, customerID, c.Version)
	})
	if errors.Is(err, cart.ErrVersionConflict) {
		return nil, cart.ErrCartConflict
	}
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("order.number", o.OrderNumber))
	log.Printf("[order] placed id=%s number=%s customer=%s total=%s", o.ID, o.OrderNumber, customerID, o.TotalAmount)
	s.publish(ctx, o, o.TrackingHistory[0])
	return o, nil
}

// CreateDirect places an order from an explicit item list, priced from the
// current catalog.
func (s *Service) CreateDirect(ctx context.Context, customerID string, in DirectRequest) (o *Order, err error) {
	ctx, span := tracer.Start(ctx, "order.CreateDirect", trace.WithAttributes(
		attribute.String("customer.id", customerID),
		attribute.String("restaurant.id", in.RestaurantID),
	))
	defer func() { endSpan(span, err) }()

	if len(in.Items) == 0 {
		return nil, ErrOrderEmpty
	}
	method, err := paymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	addr, err := s.deliveryAddress(ctx, customerID, in.DeliveryAddressID)
	if err != nil {
		return nil, err
	}
	r, err := s.restaurant(ctx, in.RestaurantID)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(in.Items))
	lines := make([]decimal.Decimal, 0, len(in.Items))
	for _, req := range in.Items {
		if req.Quantity < 1 {
			return nil, cart.ErrInvalidQuantity
		}
		it, err := s.catalog.GetItem(ctx, req.ItemID)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrItemUnavailable.Withf("item %s is no longer available", req.ItemID)
		}
		if err != nil {
			return nil, fmt.Errorf("get item: %w", err)
		}
		if it.RestaurantID != r.ID {
			return nil, ErrItemRestaurantMismatch.Withf("%s does not belong to this restaurant", it.Name)
		}
		if !it.Available() {
			return nil, ErrItemUnavailable.Withf("%s is currently out of stock", it.Name)
		}
		total := pricing.LineTotal(it.Price, req.Quantity)
		items = append(items, Item{
			ItemID:              it.ID,
			Name:                it.Name,
			Price:               it.Price,
			Quantity:            req.Quantity,
			TotalPrice:          total,
			SpecialInstructions: req.SpecialInstructions,
		})
		lines = append(lines, total)
	}
	totals := pricing.Compute(lines, r.DeliveryFee)
	if totals.TotalAmount.LessThan(r.MinimumOrder) {
		return nil, ErrMinimumOrderNotMet.Withf("minimum order amount is %s", r.MinimumOrder.StringFixed(2))
	}

	o = s.newOrder(customerID, r.ID, items, totals, addr, in.SpecialInstructions, method, s.now())
	if err := s.insert(ctx, o, func(o *Order) error { return s.repo.CreateOrder(ctx, o) }); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("order.number", o.OrderNumber))
	log.Printf("[order] placed id=%s number=%s customer=%s total=%s direct=true", o.ID, o.OrderNumber, customerID, o.TotalAmount)
	s.publish(ctx, o, o.TrackingHistory[0])
	return o, nil
}

// UpdateStatus moves an order to a new status and records exactly one
// tracking event for it.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, upd StatusUpdate, actorID string) (o *Order, err error) {
	ctx, span := tracer.Start(ctx, "order.UpdateStatus", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.status", string(upd.Status)),
	))
	defer func() { endSpan(span, err) }()

	if !upd.Status.Valid() {
		return nil, ErrInvalidStatus.Withf("unknown order status %q", upd.Status)
	}
	for attempt := 1; ; attempt++ {
		o, err = s.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if !CanTransition(o.Status, upd.Status) {
			return nil, ErrIllegalTransition.Withf("cannot change order status from %s to %s", o.Status, upd.Status)
		}
		now := s.now().UTC()
		msg := upd.Message
		if msg == "" {
			msg = defaultMessage(upd.Status)
		}
		ev := TrackingEvent{Status: upd.Status, Timestamp: now, Message: msg, UpdatedBy: actorID}

		o.Status = upd.Status
		o.TrackingHistory = append(o.TrackingHistory, ev)
		o.UpdatedAt = now
		switch upd.Status {
		case StatusDelivered:
			o.ActualDeliveryTime = &now
		case StatusCancelled:
			o.CancellationReason = upd.Message
		case StatusRejected:
			o.RejectionReason = upd.Message
		}
		if upd.EstimatedDeliveryTime != nil {
			eta := upd.EstimatedDeliveryTime.UTC()
			o.EstimatedDeliveryTime = &eta
		}

		err = s.repo.ApplyStatus(ctx, o, ev)
		if errors.Is(err, ErrVersionConflict) {
			if attempt == maxStatusAttempts {
				return nil, ErrOrderConflict
			}
			continue
		}
		if errors.Is(err, ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("apply status: %w", err)
		}
		log.Printf("[order] id=%s number=%s status=%s by=%s", o.ID, o.OrderNumber, o.Status, actorID)
		s.publish(ctx, o, ev)
		return o, nil
	}
}

// UpdateStatusForOwner is UpdateStatus restricted to orders of the owner's restaurant.
func (s *Service) UpdateStatusForOwner(ctx context.Context, ownerID, orderID string, upd StatusUpdate) (*Order, error) {
	if _, err := s.GetForOwner(ctx, ownerID, orderID); err != nil {
		return nil, err
	}
	return s.UpdateStatus(ctx, orderID, upd, ownerID)
}

func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetForCustomer returns the order only to the customer who placed it.
func (s *Service) GetForCustomer(ctx context.Context, customerID, orderID string) (*Order, error) {
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CustomerID != customerID {
		return nil, apperr.ErrForbidden
	}
	return o, nil
}

// GetForOwner hides orders of other restaurants as not found.
func (s *Service) GetForOwner(ctx context.Context, ownerID, orderID string) (*Order, error) {
	r, err := s.ownedRestaurant(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	o, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.RestaurantID != r.ID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *Service) Track(ctx context.Context, customerID, orderID string) (TrackingView, error) {
	o, err := s.GetForCustomer(ctx, customerID, orderID)
	if err != nil {
		return TrackingView{}, err
	}
	return o.Tracking(), nil
}

func (s *Service) ListForCustomer(ctx context.Context, customerID string, q ListQuery) (Page, error) {
	return s.list(ctx, Filter{CustomerID: customerID}, q)
}

func (s *Service) ListForRestaurant(ctx context.Context, ownerID string, q ListQuery) (Page, error) {
	r, err := s.ownedRestaurant(ctx, ownerID)
	if err != nil {
		return Page{}, err
	}
	return s.list(ctx, Filter{RestaurantID: r.ID}, q)
}

func (s *Service) list(ctx context.Context, f Filter, q ListQuery) (Page, error) {
	if q.Status != "" && !q.Status.Valid() {
		return Page{}, ErrInvalidStatus.Withf("unknown order status %q", q.Status)
	}
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	f.Status = q.Status
	f.From = q.From
	if !q.To.IsZero() {
		// The upper bound is a date; include the whole day.
		f.To = q.To.Add(24*time.Hour - time.Nanosecond)
	}
	f.Limit = limit
	f.Offset = (page - 1) * limit

	orders, total, err := s.repo.ListOrders(ctx, f)
	if err != nil {
		return Page{}, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []Order{}
	}
	return Page{
		Orders:     orders,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// insert assigns an order number and writes the order, drawing a fresh
// number whenever the store reports the current one as taken.
func (s *Service) insert(ctx context.Context, o *Order, write func(*Order) error) error {
	day := DayKey(o.CreatedAt)
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		seq, err := s.seq.Next(ctx, day)
		if err != nil {
			return fmt.Errorf("next order sequence: %w", err)
		}
		o.OrderNumber = FormatNumber(day, seq)
		err = write(o)
		if !errors.Is(err, ErrDuplicateNumber) {
			return err
		}
		log.Printf("[order] number=%s already taken, attempt=%d", o.OrderNumber, attempt)
	}
	return ErrNumberExhausted
}

func (s *Service) newOrder(customerID, restaurantID string, items []Item, totals pricing.Totals,
	addr DeliveryAddress, instructions, method string, now time.Time) *Order {
	now = now.UTC()
	return &Order{
		ID:              uuid.NewString(),
		CustomerID:      customerID,
		RestaurantID:    restaurantID,
		Items:           items,
		DeliveryAddress: addr,
		Totals:          totals,
		Status:          StatusPlaced,
		TrackingHistory: []TrackingEvent{{
			Status:    StatusPlaced,
			Timestamp: now,
			Message:   "Order placed successfully",
		}},
		PaymentMethod:       method,
		PaymentStatus:       PaymentPending,
		SpecialInstructions: instructions,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func (s *Service) deliveryAddress(ctx context.Context, customerID, addressID string) (DeliveryAddress, error) {
	a, err := s.addresses.FindAddress(ctx, customerID, addressID)
	if err != nil {
		return DeliveryAddress{}, err
	}
	return DeliveryAddress{
		Name:    a.Name,
		Phone:   a.Phone,
		Address: a.Address,
		City:    a.City,
		State:   a.State,
		Pincode: a.Pincode,
	}, nil
}

func (s *Service) restaurant(ctx context.Context, id string) (*catalog.Restaurant, error) {
	r, err := s.catalog.GetRestaurant(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, catalog.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	return r, nil
}

func (s *Service) ownedRestaurant(ctx context.Context, ownerID string) (*catalog.Restaurant, error) {
	r, err := s.catalog.GetRestaurantByOwner(ctx, ownerID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, catalog.ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant by owner: %w", err)
	}
	return r, nil
}

func (s *Service) publish(ctx context.Context, o *Order, ev TrackingEvent) {
	err := s.notifier.OrderEvent(ctx, notify.Event{
		OrderID:      o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerID:   o.CustomerID,
		RestaurantID: o.RestaurantID,
		Status:       string(ev.Status),
		Message:      ev.Message,
		At:           ev.Timestamp,
	})
	if err != nil {
		log.Printf("[order] notify id=%s status=%s: %v", o.ID, ev.Status, err)
	}
}

func paymentMethod(m string) (string, error) {
	switch m {
	case "":
		return PaymentCOD, nil
	case PaymentCOD, PaymentOnline, PaymentCard:
		return m, nil
	}
	return "", ErrInvalidPaymentMethod
}

func defaultMessage(s Status) string {
	return "Order " + strings.ReplaceAll(string(s), "_", " ")
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
