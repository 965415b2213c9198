package catalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productsCollection = "products"
	variantsCollection = "variants"
)

type collections interface {
	Collection(name string) *mongo.Collection
}

// ProductRepository persists product documents.
type ProductRepository struct {
	products *mongo.Collection
}

// NewProductRepository constructs a product repository.
func NewProductRepository(db collections) (*ProductRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &ProductRepository{products: db.Collection(productsCollection)}, nil
}

func (r *ProductRepository) Insert(ctx context.Context, product *Product) (*Product, error) {
	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := r.products.InsertOne(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// FindOwned looks a product up by id and owner in one filter, so a foreign
// product is indistinguishable from a missing one.
func (r *ProductRepository) FindOwned(ctx context.Context, productID, ownerID primitive.ObjectID) (*Product, error) {
	var product Product
	filter := bson.M{"_id": productID, "owner": ownerID}
	if err := r.products.FindOne(ctx, filter).Decode(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *Product) (*Product, error) {
	product.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": product.ID, "owner": product.Owner}
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var updated Product
	if err := r.products.FindOneAndReplace(ctx, filter, product, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ProductRepository) Delete(ctx context.Context, productID, ownerID primitive.ObjectID) error {
	res, err := r.products.DeleteOne(ctx, bson.M{"_id": productID, "owner": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *ProductRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.products.Find(ctx, bson.M{"owner": ownerID}, opts)
	if err != nil {
		return nil, err
	}

	products := []Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// VariantRepository persists variant documents.
type VariantRepository struct {
	variants *mongo.Collection
}

// NewVariantRepository constructs a variant repository.
func NewVariantRepository(db collections) (*VariantRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &VariantRepository{variants: db.Collection(variantsCollection)}, nil
}

func (r *VariantRepository) Insert(ctx context.Context, variant *Variant) (*Variant, error) {
	now := time.Now().UTC()
	variant.ID = primitive.NewObjectID()
	variant.CreatedAt = now
	variant.UpdatedAt = now

	if _, err := r.variants.InsertOne(ctx, variant); err != nil {
		return nil, err
	}
	return variant, nil
}

func (r *VariantRepository) InsertMany(ctx context.Context, variants []Variant) ([]Variant, error) {
	if len(variants) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	docs := make([]any, 0, len(variants))
	for i := range variants {
		variants[i].ID = primitive.NewObjectID()
		variants[i].CreatedAt = now
		variants[i].UpdatedAt = now
		docs = append(docs, variants[i])
	}

	if _, err := r.variants.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *VariantRepository) FindUnderProduct(ctx context.Context, variantID, productID primitive.ObjectID) (*Variant, error) {
	var variant Variant
	filter := bson.M{"_id": variantID, "product_id": productID}
	if err := r.variants.FindOne(ctx, filter).Decode(&variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *VariantRepository) Replace(ctx context.Context, variant *Variant) (*Variant, error) {
	variant.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": variant.ID, "product_id": variant.ProductID}
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)

	var updated Variant
	if err := r.variants.FindOneAndReplace(ctx, filter, variant, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *VariantRepository) Delete(ctx context.Context, variantID, productID primitive.ObjectID) error {
	res, err := r.variants.DeleteOne(ctx, bson.M{"_id": variantID, "product_id": productID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *VariantRepository) DeleteByProduct(ctx context.Context, productID primitive.ObjectID) error {
	_, err := r.variants.DeleteMany(ctx, bson.M{"product_id": productID})
	return err
}

func (r *VariantRepository) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]Variant, error) {
	cursor, err := r.variants.Find(ctx, bson.M{"product_id": productID})
	if err != nil {
		return nil, err
	}

	variants := []Variant{}
	if err := cursor.All(ctx, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}

func (r *VariantRepository) ListByProducts(ctx context.Context, productIDs []primitive.ObjectID) ([]Variant, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	cursor, err := r.variants.Find(ctx, bson.M{"product_id": bson.M{"$in": productIDs}})
	if err != nil {
		return nil, err
	}

	variants := []Variant{}
	if err := cursor.All(ctx, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}
