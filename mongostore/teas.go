package mongostore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lotustea/tea-catalog/models"
)

// ListTeas returns every tea with its category resolved.
func (s *Store) ListTeas(ctx context.Context) ([]models.Tea, error) {
	teas, err := s.findTeas(ctx, bson.D{}, nil)
	if err != nil {
		return nil, err
	}
	if len(teas) == 0 {
		return teas, nil
	}

	ids := make([]string, 0, len(teas))
	for _, t := range teas {
		ids = append(ids, t.CategoryID)
	}
	cur, err := s.categories.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var docs []categoryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	byID := make(map[string]models.Category, len(docs))
	for _, d := range docs {
		byID[d.ID] = d.model()
	}
	for i := range teas {
		teas[i].Category = byID[teas[i].CategoryID]
	}
	return teas, nil
}

func (s *Store) ListTeasByCategory(ctx context.Context, categoryID string) ([]models.Tea, error) {
	return s.findTeas(ctx, bson.M{"category_id": categoryID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (s *Store) findTeas(ctx context.Context, filter any, opts *options.FindOptions) ([]models.Tea, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := s.teas.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, err
	}
	var docs []teaDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	teas := make([]models.Tea, 0, len(docs))
	for _, d := range docs {
		t, err := d.model()
		if err != nil {
			return nil, err
		}
		teas = append(teas, t)
	}
	return teas, nil
}

// GetTea returns the tea with its category resolved.
func (s *Store) GetTea(ctx context.Context, id string) (*models.Tea, error) {
	var doc teaDocument
	if err := s.teas.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrTeaNotFound
		}
		return nil, err
	}
	tea, err := doc.model()
	if err != nil {
		return nil, err
	}

	category, err := s.GetCategory(ctx, tea.CategoryID)
	switch {
	case err == nil:
		tea.Category = *category
	case !errors.Is(err, models.ErrCategoryNotFound):
		return nil, err
	}
	return &tea, nil
}

func (s *Store) CreateTea(ctx context.Context, tea *models.Tea) error {
	if err := s.requireCategory(ctx, tea.CategoryID); err != nil {
		return err
	}
	if tea.ID == "" {
		tea.ID = newID()
	}
	doc, err := toTeaDocument(tea)
	if err != nil {
		return err
	}
	_, err = s.teas.InsertOne(ctx, doc)
	return translateError(err)
}

func (s *Store) UpdateTea(ctx context.Context, tea *models.Tea) error {
	if err := s.requireCategory(ctx, tea.CategoryID); err != nil {
		return err
	}
	doc, err := toTeaDocument(tea)
	if err != nil {
		return err
	}
	res, err := s.teas.ReplaceOne(ctx, bson.M{"_id": tea.ID}, doc)
	if err != nil {
		return translateError(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrTeaNotFound
	}
	return nil
}

// DeleteTea removes the tea and returns the removed record.
func (s *Store) DeleteTea(ctx context.Context, id string) (*models.Tea, error) {
	var doc teaDocument
	if err := s.teas.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrTeaNotFound
		}
		return nil, err
	}
	tea, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &tea, nil
}

func (s *Store) CountTeas(ctx context.Context) (int64, error) {
	return s.teas.CountDocuments(ctx, bson.D{})
}

func (s *Store) requireCategory(ctx context.Context, id string) error {
	n, err := s.categories.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrReferenceViolation
	}
	return nil
}
