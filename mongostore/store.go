// Package mongostore keeps categories and teas in MongoDB.
//
// Category names are protected by a unique index. The tea -> category
// reference is checked before each write and is not transactional: a tea
// written concurrently with the delete of its category can slip through.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/lotustea/tea-catalog/models"
)

type categoryDocument struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
}

type teaDocument struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description"`
	CategoryID  string               `bson:"category_id"`
	Price       primitive.Decimal128 `bson:"price"`
	Quantity    int                  `bson:"quantity"`
	Picture     string               `bson:"picture,omitempty"`
}

// Store implements both the category and the tea store.
type Store struct {
	client     *mongo.Client
	categories *mongo.Collection
	teas       *mongo.Collection
}

// Connect dials MongoDB, checks the connection and makes sure the indexes exist.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:     client,
		categories: db.Collection("categories"),
		teas:       db.Collection("teas"),
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("create categories name index: %w", err)
	}
	if _, err := s.teas.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category_id", Value: 1}},
	}); err != nil {
		return fmt.Errorf("create teas category index: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func translateError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return errors.Join(models.ErrDuplicateKey, err)
	}
	return err
}

func toTeaDocument(t *models.Tea) (teaDocument, error) {
	price, err := primitive.ParseDecimal128(t.Price.String())
	if err != nil {
		return teaDocument{}, fmt.Errorf("encode price %s: %w", t.Price, err)
	}
	return teaDocument{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CategoryID:  t.CategoryID,
		Price:       price,
		Quantity:    t.Quantity,
		Picture:     t.Picture,
	}, nil
}

func (d teaDocument) model() (models.Tea, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return models.Tea{}, fmt.Errorf("decode price of tea %s: %w", d.ID, err)
	}
	return models.Tea{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CategoryID:  d.CategoryID,
		Price:       price,
		Quantity:    d.Quantity,
		Picture:     d.Picture,
	}, nil
}

func (d categoryDocument) model() models.Category {
	return models.Category{ID: d.ID, Name: d.Name, Description: d.Description}
}

func newID() string {
	return uuid.NewString()
}
