package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MikeMC777/foodorders/internal/cart"
)

func (s *Store) GetCart(ctx context.Context, customerID string) (*cart.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	var c cart.Cart
	if err := s.carts().FindOne(ctx, bson.M{"customer_id": customerID}).Decode(&c); err != nil {
		if notFound(err) {
			return nil, cart.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) SaveCart(ctx context.Context, c *cart.Cart) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	expected := c.Version
	c.Version++
	if expected == 0 {
		if _, err := s.carts().InsertOne(ctx, c); err != nil {
			c.Version = expected
			if mongo.IsDuplicateKeyError(err) {
				return cart.ErrVersionConflict
			}
			return err
		}
		return nil
	}
	res, err := s.carts().ReplaceOne(ctx, bson.M{"customer_id": c.CustomerID, "version": expected}, c)
	if err == nil && res.MatchedCount == 0 {
		err = cart.ErrVersionConflict
	}
	if err != nil {
		c.Version = expected
		return err
	}
	return nil
}

func (s *Store) DeleteCart(ctx context.Context, customerID string, version int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"customer_id": customerID}
	if version != 0 {
		filter["version"] = version
	}
	res, err := s.carts().DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount > 0 || version == 0 {
		return nil
	}
	n, err := s.carts().CountDocuments(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		return err
	}
	if n > 0 {
		return cart.ErrVersionConflict
	}
	return nil
}

func (s *Store) DeleteExpiredCarts(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	res, err := s.carts().DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": now}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
