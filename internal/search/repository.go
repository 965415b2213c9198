package search

import (
	"context"
	"fmt"
	"regexp"

	"github.com/rmarconi/threadline-backend/internal/catalog"
	"github.com/rmarconi/threadline-backend/internal/categories"
	"github.com/rmarconi/threadline-backend/pkg/pagination"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collections interface {
	Collection(name string) *mongo.Collection
}

// Repository runs the read-side queries behind search, across the same
// collections the write-side repositories own.
type Repository struct {
	products   *mongo.Collection
	variants   *mongo.Collection
	categories *mongo.Collection
}

// NewRepository constructs a search repository.
func NewRepository(db collections) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Repository{
		products:   db.Collection("products"),
		variants:   db.Collection("variants"),
		categories: db.Collection("categories"),
	}, nil
}

func substringFilter(field, term string) bson.M {
	return bson.M{field: bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}}
}

func (r *Repository) FindProductsByName(ctx context.Context, term string) ([]catalog.Product, error) {
	return r.findProducts(ctx, substringFilter("name", term), nil)
}

func (r *Repository) FindProductsByCategoryIDs(ctx context.Context, categoryIDs []primitive.ObjectID) ([]catalog.Product, error) {
	return r.findProducts(ctx, bson.M{"category_id": bson.M{"$in": categoryIDs}}, nil)
}

func (r *Repository) FindProductsByIDs(ctx context.Context, productIDs []primitive.ObjectID) ([]catalog.Product, error) {
	return r.findProducts(ctx, bson.M{"_id": bson.M{"$in": productIDs}}, nil)
}

func (r *Repository) ListProductsByCreated(ctx context.Context, newestFirst bool, cursor *pagination.Cursor, limit int) ([]catalog.Product, error) {
	direction := 1
	cmp := "$gt"
	if newestFirst {
		direction = -1
		cmp = "$lt"
	}

	filter := bson.M{}
	if cursor != nil {
		// Keyset filter over (createdAt, _id) so pages stay stable while
		// new products are inserted.
		filter = bson.M{"$or": bson.A{
			bson.M{"createdAt": bson.M{cmp: cursor.CreatedAt}},
			bson.M{"createdAt": cursor.CreatedAt, "_id": bson.M{cmp: cursor.ID}},
		}}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: direction}, {Key: "_id", Value: direction}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	return r.findProducts(ctx, filter, opts)
}

func (r *Repository) FindVariantsBySize(ctx context.Context, term string) ([]catalog.Variant, error) {
	return r.findVariants(ctx, substringFilter("size", term))
}

func (r *Repository) FindVariantsByColor(ctx context.Context, term string) ([]catalog.Variant, error) {
	return r.findVariants(ctx, substringFilter("color", term))
}

func (r *Repository) ListVariantsByProducts(ctx context.Context, productIDs []primitive.ObjectID) ([]catalog.Variant, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	return r.findVariants(ctx, bson.M{"product_id": bson.M{"$in": productIDs}})
}

func (r *Repository) FindCategoriesByName(ctx context.Context, term string) ([]categories.Category, error) {
	cursor, err := r.categories.Find(ctx, substringFilter("name", term))
	if err != nil {
		return nil, err
	}

	matched := []categories.Category{}
	if err := cursor.All(ctx, &matched); err != nil {
		return nil, err
	}
	return matched, nil
}

func (r *Repository) findProducts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]catalog.Product, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.products.Find(ctx, filter, opts)
	} else {
		cursor, err = r.products.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	products := []catalog.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) findVariants(ctx context.Context, filter bson.M) ([]catalog.Variant, error) {
	cursor, err := r.variants.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	variants := []catalog.Variant{}
	if err := cursor.All(ctx, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}
