package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"inventory/internal/core/apperror"
	"inventory/internal/core/id"
	"inventory/internal/domain"
	"inventory/internal/domain/catalogs/product"
)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	coll *mongo.Collection
}

// NewProductRepo creates a new product repository.
func NewProductRepo(c *Client) *ProductRepo {
	return &ProductRepo{coll: c.db.Collection(productCollection)}
}

func (r *ProductRepo) Create(ctx context.Context, p *product.Product) error {
	rec, err := toProductRecord(p)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, rec)
	if isDuplicateOn(err, productCodeIndex) {
		return apperror.NewDuplicate("product", "code", p.Code)
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	var rec productRecord
	err := r.coll.FindOne(ctx, bson.M{"_id": productID.String()}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperror.NewNotFound("product", productID)
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return fromProductRecord(rec)
}

func (r *ProductRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*product.Product], error) {
	filter = filter.Normalize()
	result := domain.ListResult[*product.Product]{
		Items:  []*product.Product{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	query := productSearchFilter(filter.Search)
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return result, fmt.Errorf("count products: %w", err)
	}
	result.TotalCount = total

	opts := options.Find().
		SetSort(bson.D{{Key: "code", Value: 1}}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return result, fmt.Errorf("find products: %w", err)
	}
	var recs []productRecord
	if err := cur.All(ctx, &recs); err != nil {
		return result, fmt.Errorf("decode products: %w", err)
	}
	for _, rec := range recs {
		p, err := fromProductRecord(rec)
		if err != nil {
			return result, err
		}
		result.Items = append(result.Items, p)
	}
	return result, nil
}

// productSearchFilter matches search case-insensitively in code or name.
func productSearchFilter(search string) bson.M {
	search = strings.TrimSpace(search)
	if search == "" {
		return bson.M{}
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"code": re},
		bson.M{"name": re},
	}}
}

func (r *ProductRepo) Update(ctx context.Context, p *product.Product) error {
	rec, err := toProductRecord(p)
	if err != nil {
		return err
	}
	set := bson.M{
		"code":       rec.Code,
		"name":       rec.Name,
		"price":      rec.Price,
		"version":    rec.Version,
		"updated_at": rec.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if rec.Description != nil {
		set["description"] = *rec.Description
	} else {
		update["$unset"] = bson.M{"description": ""}
	}

	res, err := r.coll.UpdateOne(ctx, productVersionFilter(rec), update)
	if isDuplicateOn(err, productCodeIndex) {
		return apperror.NewDuplicate("product", "code", p.Code)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": rec.ID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if n == 0 {
		return apperror.NewNotFound("product", p.ID)
	}
	return product.StaleVersion(p)
}

// productVersionFilter matches rec only at the version it was read at.
func productVersionFilter(rec productRecord) bson.M {
	return bson.M{"_id": rec.ID, "version": rec.Version - 1}
}

var _ product.Repository = (*ProductRepo)(nil)
