// Package notify fans order events out to whoever is listening: the log,
// a Kafka topic, live websocket subscribers.
package notify

import (
	"context"
	"errors"
	"log"
	"time"
)

type Event struct {
	OrderID      string    `json:"orderId"`
	OrderNumber  string    `json:"orderNumber"`
	CustomerID   string    `json:"customerId"`
	RestaurantID string    `json:"restaurantId"`
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	At           time.Time `json:"at"`
}

type Notifier interface {
	OrderEvent(ctx context.Context, ev Event) error
}

// Log writes one line per event.
type Log struct{}

func (Log) OrderEvent(_ context.Context, ev Event) error {
	log.Printf("[notify] order=%s number=%s customer=%s status=%s msg=%q",
		ev.OrderID, ev.OrderNumber, ev.CustomerID, ev.Status, ev.Message)
	return nil
}

// Multi delivers to every notifier even if some fail.
type Multi []Notifier

func (m Multi) OrderEvent(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range m {
		if err := n.OrderEvent(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
