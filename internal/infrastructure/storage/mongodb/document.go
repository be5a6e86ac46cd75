package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inventory/internal/core/apperror"
	"inventory/internal/domain"
	"inventory/internal/domain/documents"
)

// DocumentRepo implements documents.Repository with items embedded in the
// document.
type DocumentRepo struct {
	coll *mongo.Collection
}

// NewDocumentRepo creates a new document repository.
func NewDocumentRepo(c *Client) *DocumentRepo {
	return &DocumentRepo{coll: c.db.Collection(documentCollection)}
}

func (r *DocumentRepo) Create(ctx context.Context, doc *documents.Document) error {
	rec, err := toDocumentRecord(doc)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, rec)
	if isDuplicateOn(err, documentReferenceIndex) {
		return apperror.NewDuplicate("document", "reference", doc.Reference)
	}
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepo) GetByReference(ctx context.Context, reference string) (*documents.Document, error) {
	var rec documentRecord
	err := r.coll.FindOne(ctx, bson.M{"reference": reference}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NewNotFound("document", reference)
	}
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	return fromDocumentRecord(rec)
}

func (r *DocumentRepo) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"reference": reference}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count documents: %w", err)
	}
	return n > 0, nil
}

func (r *DocumentRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*documents.Document], error) {
	filter = filter.Normalize()
	result := domain.ListResult[*documents.Document]{
		Items:  []*documents.Document{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	query := bson.M{}
	if filter.Concept != "" {
		query["concept"] = filter.Concept
	}
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return result, fmt.Errorf("count documents: %w", err)
	}
	result.TotalCount = total

	opts := options.Find().
		SetSort(bson.D{{Key: "datetime", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return result, fmt.Errorf("find documents: %w", err)
	}
	var recs []documentRecord
	if err := cur.All(ctx, &recs); err != nil {
		return result, fmt.Errorf("decode documents: %w", err)
	}
	for _, rec := range recs {
		doc, err := fromDocumentRecord(rec)
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, doc)
	}
	return result, nil
}

var _ documents.Repository = (*DocumentRepo)(nil)
