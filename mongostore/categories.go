package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lotustea/tea-catalog/models"
)

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	cur, err := s.categories.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []categoryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	categories := make([]models.Category, len(docs))
	for i, d := range docs {
		categories[i] = d.model()
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	return s.findCategory(ctx, bson.M{"_id": id})
}

func (s *Store) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	return s.findCategory(ctx, bson.M{"name": name})
}

func (s *Store) findCategory(ctx context.Context, filter bson.M) (*models.Category, error) {
	var doc categoryDocument
	if err := s.categories.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrCategoryNotFound
		}
		return nil, err
	}
	c := doc.model()
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = newID()
	}
	_, err := s.categories.InsertOne(ctx, categoryDocument{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	})
	return translateError(err)
}

func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	res, err := s.categories.UpdateOne(ctx,
		bson.M{"_id": category.ID},
		bson.M{"$set": bson.M{"name": category.Name, "description": category.Description}},
	)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

// DeleteCategory refuses to delete a category that teas still reference.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	n, err := s.teas.CountDocuments(ctx, bson.M{"category_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n > 0 {
		return models.ErrReferenceViolation
	}

	res, err := s.categories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

func (s *Store) CountCategories(ctx context.Context) (int64, error) {
	return s.categories.CountDocuments(ctx, bson.D{})
}
