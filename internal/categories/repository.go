package categories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const categoriesCollection = "categories"

type collections interface {
	Collection(name string) *mongo.Collection
}

// Repository persists category documents.
type Repository struct {
	categories *mongo.Collection
}

// NewRepository constructs a category repository.
func NewRepository(db collections) (*Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &Repository{categories: db.Collection(categoriesCollection)}, nil
}

func (r *Repository) Insert(ctx context.Context, category *Category) (*Category, error) {
	now := time.Now().UTC()
	category.ID = primitive.NewObjectID()
	category.CreatedAt = now
	category.UpdatedAt = now

	if _, err := r.categories.InsertOne(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (r *Repository) FindByID(ctx context.Context, categoryID primitive.ObjectID) (*Category, error) {
	var category Category
	if err := r.categories.FindOne(ctx, bson.M{"_id": categoryID}).Decode(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (*Category, error) {
	var category Category
	filter := bson.M{"name": bson.M{"$regex": fmt.Sprintf("^%s$", regexp.QuoteMeta(name)), "$options": "i"}}
	if err := r.categories.FindOne(ctx, filter).Decode(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) Update(ctx context.Context, category *Category) (*Category, error) {
	category.UpdatedAt = time.Now().UTC()

	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	var updated Category
	if err := r.categories.FindOneAndReplace(ctx, bson.M{"_id": category.ID}, category, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *Repository) Delete(ctx context.Context, categoryID primitive.ObjectID) error {
	res, err := r.categories.DeleteOne(ctx, bson.M{"_id": categoryID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	categories := []Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
