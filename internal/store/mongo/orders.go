package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MikeMC777/foodorders/internal/cart"
	"github.com/MikeMC777/foodorders/internal/order"
)

func (s *Store) CreateOrder(ctx context.Context, o *order.Order) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	o.Version = 1
	if _, err := s.orders().InsertOne(ctx, o); err != nil {
		o.Version = 0
		if mongo.IsDuplicateKeyError(err) {
			return order.ErrDuplicateNumber
		}
		return err
	}
	return nil
}

// CreateOrderFromCart removes the cart at cartVersion and inserts the order
// inside one transaction.
func (s *Store) CreateOrderFromCart(ctx context.Context, o *order.Order, customerID string, cartVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	sess, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	o.Version = 1
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := s.carts().DeleteOne(sc, bson.M{"customer_id": customerID, "version": cartVersion})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, cart.ErrVersionConflict
		}
		if _, err := s.orders().InsertOne(sc, o); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, order.ErrDuplicateNumber
			}
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		o.Version = 0
	}
	return err
}

func (s *Store) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	var o order.Order
	if err := s.orders().FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if notFound(err) {
			return nil, order.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, f order.Filter) ([]order.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{}
	if f.CustomerID != "" {
		filter["customer_id"] = f.CustomerID
	}
	if f.RestaurantID != "" {
		filter["restaurant_id"] = f.RestaurantID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	created := bson.M{}
	if !f.From.IsZero() {
		created["$gte"] = f.From
	}
	if !f.To.IsZero() {
		created["$lte"] = f.To
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}

	total, err := s.orders().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "order_number", Value: -1}}).
		SetSkip(int64(f.Offset))
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cur, err := s.orders().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	out := []order.Order{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) ApplyStatus(ctx context.Context, o *order.Order, ev order.TrackingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":                  o.Status,
			"estimated_delivery_time": o.EstimatedDeliveryTime,
			"actual_delivery_time":    o.ActualDeliveryTime,
			"cancellation_reason":     o.CancellationReason,
			"rejection_reason":        o.RejectionReason,
			"updated_at":              o.UpdatedAt,
		},
		"$push": bson.M{"tracking_history": ev},
		"$inc":  bson.M{"version": 1},
	}
	res, err := s.orders().UpdateOne(ctx, bson.M{"_id": o.ID, "version": o.Version}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := s.orders().CountDocuments(ctx, bson.M{"_id": o.ID})
		if err != nil {
			return err
		}
		if n > 0 {
			return order.ErrVersionConflict
		}
		return order.ErrNotFound
	}
	o.Version++
	return nil
}

// NextOrderSequence bumps the day's counter document, creating it on first use.
func (s *Store) NextOrderSequence(ctx context.Context, day string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters().FindOneAndUpdate(ctx, bson.M{"_id": day}, bson.M{"$inc": bson.M{"seq": 1}}, opts).Decode(&doc)
	return doc.Seq, err
}
