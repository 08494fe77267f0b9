package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/foodorders/internal/cart"
	"github.com/MikeMC777/foodorders/internal/order"
)

const orderCols = `id, order_number, customer_id, restaurant_id, items, delivery_address,
  subtotal::text, delivery_fee::text, tax::text, total_amount::text, status, tracking_history,
  payment_method, payment_status, estimated_delivery_time, actual_delivery_time,
  special_instructions, cancellation_reason, rejection_reason, created_at, updated_at, version`

const insertOrder = `
    INSERT INTO orders (id, order_number, customer_id, restaurant_id, items, delivery_address,
      subtotal, delivery_fee, tax, total_amount, status, tracking_history, payment_method, payment_status,
      estimated_delivery_time, actual_delivery_time, special_instructions, cancellation_reason,
      rejection_reason, created_at, updated_at, version)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,1)`

func orderArgs(o *order.Order) ([]any, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, err
	}
	addr, err := json.Marshal(o.DeliveryAddress)
	if err != nil {
		return nil, err
	}
	history, err := json.Marshal(o.TrackingHistory)
	if err != nil {
		return nil, err
	}
	return []any{o.ID, o.OrderNumber, o.CustomerID, o.RestaurantID, string(items), string(addr),
		o.Subtotal.String(), o.DeliveryFee.String(), o.Tax.String(), o.TotalAmount.String(),
		string(o.Status), string(history), o.PaymentMethod, o.PaymentStatus,
		o.EstimatedDeliveryTime, o.ActualDeliveryTime, o.SpecialInstructions, o.CancellationReason,
		o.RejectionReason, o.CreatedAt, o.UpdatedAt}, nil
}

func scanOrder(r row) (*order.Order, error) {
	var (
		o                    order.Order
		items, addr, history []byte
		sub, fee, tax, total string
	)
	if err := r.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.RestaurantID, &items, &addr,
		&sub, &fee, &tax, &total, &o.Status, &history, &o.PaymentMethod, &o.PaymentStatus,
		&o.EstimatedDeliveryTime, &o.ActualDeliveryTime, &o.SpecialInstructions, &o.CancellationReason,
		&o.RejectionReason, &o.CreatedAt, &o.UpdatedAt, &o.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(addr, &o.DeliveryAddress); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &o.TrackingHistory); err != nil {
		return nil, err
	}
	if err := scanTotals(&o.Subtotal, &o.DeliveryFee, &o.Tax, &o.TotalAmount, sub, fee, tax, total); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	args, err := orderArgs(o)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, insertOrder, args...); err != nil {
		if uniqueViolation(err, "orders_order_number_key") {
			return order.ErrDuplicateNumber
		}
		return err
	}
	o.Version = 1
	return nil
}

// CreateOrderFromCart deletes the cart at the expected version and inserts
// the order in the same transaction.
func (s *Store) CreateOrderFromCart(ctx context.Context, o *order.Order, customerID string, cartVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	args, err := orderArgs(o)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `DELETE FROM carts WHERE customer_id=$1 AND version=$2`, customerID, cartVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrVersionConflict
	}
	if _, err := tx.Exec(ctx, insertOrder, args...); err != nil {
		if uniqueViolation(err, "orders_order_number_key") {
			return order.ErrDuplicateNumber
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	o.Version = 1
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return scanOrder(s.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
}

func (s *Store) ListOrders(ctx context.Context, f order.Filter) ([]order.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.CustomerID != "" {
		add("customer_id=$%d", f.CustomerID)
	}
	if f.RestaurantID != "" {
		add("restaurant_id=$%d", f.RestaurantID)
	}
	if f.Status != "" {
		add("status=$%d", string(f.Status))
	}
	if !f.From.IsZero() {
		add("created_at>=$%d", f.From)
	}
	if !f.To.IsZero() {
		add("created_at<=$%d", f.To)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM orders`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + orderCols + ` FROM orders` + clause + ` ORDER BY created_at DESC, order_number DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []order.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

func (s *Store) ApplyStatus(ctx context.Context, o *order.Order, ev order.TrackingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	event, err := json.Marshal([]order.TrackingEvent{ev})
	if err != nil {
		return err
	}
	var version int64
	err = s.db.QueryRow(ctx, `
    UPDATE orders
    SET status=$3, tracking_history = tracking_history || $4::jsonb,
        estimated_delivery_time=$5, actual_delivery_time=$6,
        cancellation_reason=$7, rejection_reason=$8, updated_at=$9, version=version+1
    WHERE id=$1 AND version=$2
    RETURNING version
  `, o.ID, o.Version, string(o.Status), string(event), o.EstimatedDeliveryTime, o.ActualDeliveryTime,
		o.CancellationReason, o.RejectionReason, o.UpdatedAt).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id=$1)`, o.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return order.ErrVersionConflict
		}
		return order.ErrNotFound
	}
	if err != nil {
		return err
	}
	o.Version = version
	return nil
}

// NextOrderSequence upserts the day's counter row and returns the new value.
func (s *Store) NextOrderSequence(ctx context.Context, day string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var seq int64
	err := s.db.QueryRow(ctx, `
    INSERT INTO order_counters (day, seq) VALUES ($1, 1)
    ON CONFLICT (day) DO UPDATE SET seq = order_counters.seq + 1
    RETURNING seq
  `, day).Scan(&seq)
	return seq, err
}
