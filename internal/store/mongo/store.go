// Package mongo implements every repository on MongoDB. Checkout needs a
// replica set because it runs in a multi-document transaction.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to uri, selects database and makes sure the indexes exist.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRegistry(Registry()))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	s := &Store{client: client, db: client.Database(database)}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Printf("[store] mongo ready db=%s", database)
	return s, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) users() *mongo.Collection       { return s.db.Collection("users") }
func (s *Store) restaurants() *mongo.Collection { return s.db.Collection("restaurants") }
func (s *Store) items() *mongo.Collection       { return s.db.Collection("items") }
func (s *Store) carts() *mongo.Collection       { return s.db.Collection("carts") }
func (s *Store) orders() *mongo.Collection      { return s.db.Collection("orders") }
func (s *Store) counters() *mongo.Collection    { return s.db.Collection("order_counters") }

// EnsureIndexes creates the unique and TTL indexes the repositories rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.users(), mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.restaurants(), mongo.IndexModel{Keys: bson.D{{Key: "owner_id", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.items(), mongo.IndexModel{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "category", Value: 1}}}},
		{s.carts(), mongo.IndexModel{Keys: bson.D{{Key: "customer_id", Value: 1}}, Options: options.Index().SetUnique(true)}},
		// The server reaps expired carts on its own; CleanExpired is the backstop.
		{s.carts(), mongo.IndexModel{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)}},
		{s.orders(), mongo.IndexModel{Keys: bson.D{{Key: "order_number", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.orders(), mongo.IndexModel{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}}},
		{s.orders(), mongo.IndexModel{Keys: bson.D{{Key: "restaurant_id", Value: 1}, {Key: "created_at", Value: -1}}}},
	}
	for _, sp := range specs {
		if _, err := sp.coll.Indexes().CreateOne(ctx, sp.model); err != nil {
			return fmt.Errorf("create index on %s: %w", sp.coll.Name(), err)
		}
	}
	return nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Registry is the default bson registry plus a Decimal128 codec for
// shopspring decimals, so money keeps its exact value in the database.
func Registry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeEncoder(decimalType, bsoncodec.ValueEncoderFunc(encodeDecimal))
	reg.RegisterTypeDecoder(decimalType, bsoncodec.ValueDecoderFunc(decodeDecimal))
	return reg
}

func encodeDecimal(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != decimalType {
		return bsoncodec.ValueEncoderError{Name: "decimalEncodeValue", Types: []reflect.Type{decimalType}, Received: val}
	}
	d := val.Interface().(decimal.Decimal)
	d128, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return err
	}
	return vw.WriteDecimal128(d128)
}

func decodeDecimal(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != decimalType {
		return bsoncodec.ValueDecoderError{Name: "decimalDecodeValue", Types: []reflect.Type{decimalType}, Received: val}
	}
	var (
		s   string
		err error
	)
	switch vr.Type() {
	case bsontype.Decimal128:
		var d128 primitive.Decimal128
		d128, err = vr.ReadDecimal128()
		s = d128.String()
	case bsontype.String:
		s, err = vr.ReadString()
	case bsontype.Double:
		var f float64
		f, err = vr.ReadDouble()
		if err == nil {
			val.Set(reflect.ValueOf(decimal.NewFromFloat(f)))
		}
		return err
	case bsontype.Null:
		val.Set(reflect.ValueOf(decimal.Zero))
		return vr.ReadNull()
	default:
		return fmt.Errorf("cannot decode %v into decimal", vr.Type())
	}
	if err != nil {
		return err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	val.Set(reflect.ValueOf(d))
	return nil
}

func notFound(err error) bool { return errors.Is(err, mongo.ErrNoDocuments) }
