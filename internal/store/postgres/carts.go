package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/MikeMC777/foodorders/internal/cart"
)

func (s *Store) GetCart(ctx context.Context, customerID string) (*cart.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		c                    cart.Cart
		items                []byte
		sub, fee, tax, total string
	)
	err := s.db.QueryRow(ctx, `
    SELECT id, customer_id, restaurant_id, items, subtotal::text, delivery_fee::text, tax::text,
           total_amount::text, expires_at, created_at, updated_at, version
    FROM carts WHERE customer_id=$1
  `, customerID).Scan(&c.ID, &c.CustomerID, &c.RestaurantID, &items, &sub, &fee, &tax, &total,
		&c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt, &c.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &c.Items); err != nil {
		return nil, err
	}
	if err := scanTotals(&c.Subtotal, &c.DeliveryFee, &c.Tax, &c.TotalAmount, sub, fee, tax, total); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) SaveCart(ctx context.Context, c *cart.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	items, err := json.Marshal(c.Items)
	if err != nil {
		return err
	}
	args := []any{c.CustomerID, c.ID, c.RestaurantID, string(items), c.Subtotal.String(), c.DeliveryFee.String(),
		c.Tax.String(), c.TotalAmount.String(), c.ExpiresAt, c.CreatedAt, c.UpdatedAt, c.Version}

	var q string
	if c.Version == 0 {
		args = args[:11]
		q = `
    INSERT INTO carts (customer_id, id, restaurant_id, items, subtotal, delivery_fee, tax, total_amount,
      expires_at, created_at, updated_at, version)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,1)
    ON CONFLICT (customer_id) DO NOTHING`
	} else {
		q = `
    UPDATE carts
    SET id=$2, restaurant_id=$3, items=$4, subtotal=$5, delivery_fee=$6, tax=$7, total_amount=$8,
        expires_at=$9, created_at=$10, updated_at=$11, version=version+1
    WHERE customer_id=$1 AND version=$12`
	}
	tag, err := s.db.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return cart.ErrVersionConflict
	}
	c.Version++
	return nil
}

func (s *Store) DeleteCart(ctx context.Context, customerID string, version int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if version == 0 {
		_, err := s.db.Exec(ctx, `DELETE FROM carts WHERE customer_id=$1`, customerID)
		return err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM carts WHERE customer_id=$1 AND version=$2`, customerID, version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	// Gone already is fine, replaced is not.
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM carts WHERE customer_id=$1)`, customerID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return cart.ErrVersionConflict
	}
	return nil
}

func (s *Store) DeleteExpiredCarts(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	tag, err := s.db.Exec(ctx, `DELETE FROM carts WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
