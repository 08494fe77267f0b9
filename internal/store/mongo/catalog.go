package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MikeMC777/foodorders/internal/catalog"
)

func (s *Store) findRestaurant(ctx context.Context, filter bson.M) (*catalog.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	var r catalog.Restaurant
	if err := s.restaurants().FindOne(ctx, filter).Decode(&r); err != nil {
		if notFound(err) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetRestaurant(ctx context.Context, id string) (*catalog.Restaurant, error) {
	return s.findRestaurant(ctx, bson.M{"_id": id})
}

func (s *Store) GetRestaurantByOwner(ctx context.Context, ownerID string) (*catalog.Restaurant, error) {
	return s.findRestaurant(ctx, bson.M{"owner_id": ownerID})
}

func (s *Store) SaveRestaurant(ctx context.Context, r *catalog.Restaurant) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err := s.restaurants().ReplaceOne(ctx, bson.M{"_id": r.ID}, r, options.Replace().SetUpsert(true))
	return err
}

func (s *Store) GetItem(ctx context.Context, id string) (*catalog.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	var it catalog.Item
	if err := s.items().FindOne(ctx, bson.M{"_id": id}).Decode(&it); err != nil {
		if notFound(err) {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (s *Store) ListItems(ctx context.Context, restaurantID string) ([]catalog.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cur, err := s.items().Find(ctx, bson.M{"restaurant_id": restaurantID}, opts)
	if err != nil {
		return nil, err
	}
	out := []catalog.Item{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CreateItem(ctx context.Context, it *catalog.Item) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	_, err := s.items().InsertOne(ctx, it)
	return err
}

func (s *Store) UpdateItem(ctx context.Context, it *catalog.Item) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	res, err := s.items().ReplaceOne(ctx, bson.M{"_id": it.ID}, it)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteItem(ctx context.Context, restaurantID, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	res, err := s.items().DeleteOne(ctx, bson.M{"_id": id, "restaurant_id": restaurantID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
