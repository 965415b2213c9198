package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rmarconi/threadline-backend/pkg/enums"
	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
	"github.com/rmarconi/threadline-backend/pkg/logger"
	"github.com/rmarconi/threadline-backend/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateProductInput is the payload for creating a product together with its
// initial variants.
type CreateProductInput struct {
	Name        string
	Description string
	Brand       string
	CategoryID  *primitive.ObjectID
	Status      enums.ProductStatus
	Variants    []VariantInput
}

// UpdateProductInput carries optional product mutations. Variants, when
// non-nil, replaces the full variant set of the product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Brand       *string
	CategoryID  *primitive.ObjectID
	Status      *enums.ProductStatus
	Variants    []VariantInput
}

type productStore interface {
	Insert(ctx context.Context, product *Product) (*Product, error)
	FindOwned(ctx context.Context, productID, ownerID primitive.ObjectID) (*Product, error)
	Update(ctx context.Context, product *Product) (*Product, error)
	Delete(ctx context.Context, productID, ownerID primitive.ObjectID) error
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]Product, error)
}

type txRunner interface {
	WithTxFallback(ctx context.Context, fn func(ctx context.Context) error) (bool, error)
}

// ProductService coordinates product aggregates: the product document plus
// every variant document hanging under it.
type ProductService interface {
	Create(ctx context.Context, ownerID primitive.ObjectID, input CreateProductInput) (*ProductAggregateDTO, error)
	Update(ctx context.Context, ownerID, productID primitive.ObjectID, input UpdateProductInput) (*ProductAggregateDTO, error)
	Delete(ctx context.Context, ownerID, productID primitive.ObjectID) (*ProductDTO, error)
	ListMine(ctx context.Context, ownerID primitive.ObjectID) ([]ProductAggregateDTO, error)
	Get(ctx context.Context, ownerID, productID primitive.ObjectID) (*ProductAggregateDTO, error)
}

type productService struct {
	products productStore
	variants variantStore
	guard    *OwnershipGuard
	tx       txRunner
	metrics  *metrics.CatalogMetrics
	log      *logger.Logger
}

// NewProductService constructs a product service instance.
func NewProductService(
	products productStore,
	variants variantStore,
	guard *OwnershipGuard,
	tx txRunner,
	catalogMetrics *metrics.CatalogMetrics,
	log *logger.Logger,
) (ProductService, error) {
	if products == nil {
		return nil, fmt.Errorf("product store required")
	}
	if variants == nil {
		return nil, fmt.Errorf("variant store required")
	}
	if guard == nil {
		return nil, fmt.Errorf("ownership guard required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &productService{
		products: products,
		variants: variants,
		guard:    guard,
		tx:       tx,
		metrics:  catalogMetrics,
		log:      log,
	}, nil
}

// Create validates every variant up front, then persists the product and its
// variants. On a replica set the writes commit atomically; on a standalone
// deployment they run sequentially and a mid-flight failure can leave the
// product behind without variants.
func (s *productService) Create(ctx context.Context, ownerID primitive.ObjectID, input CreateProductInput) (*ProductAggregateDTO, error) {
	product, variants, err := buildAggregate(ownerID, input)
	if err != nil {
		return nil, err
	}

	var created *Product
	var createdVariants []Variant
	var writesStarted bool
	atomic, err := s.tx.WithTxFallback(ctx, func(ctx context.Context) error {
		writesStarted = true
		var txErr error
		created, txErr = s.products.Insert(ctx, product)
		if txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "db: insert product")
		}
		if len(variants) == 0 {
			return nil
		}
		for i := range variants {
			variants[i].ProductID = created.ID
		}
		createdVariants, txErr = s.variants.InsertMany(ctx, variants)
		if txErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, txErr, "db: insert variants")
		}
		return nil
	})
	if err != nil {
		if !atomic && writesStarted {
			s.log.Error(ctx, "non-atomic product create failed, earlier writes may persist", err)
		}
		return nil, err
	}

	s.metrics.IncProductsCreated()
	return NewProductAggregateDTO(created, createdVariants), nil
}

// Update applies a partial patch to an owned product. When the patch carries
// a variant set, the existing variants are deleted and the new set inserted.
// The delete and the insert are two separate writes: a failure between them
// leaves the product with zero variants.
func (s *productService) Update(ctx context.Context, ownerID, productID primitive.ObjectID, input UpdateProductInput) (*ProductAggregateDTO, error) {
	product, err := s.guard.AssertOwned(ctx, productID, ownerID)
	if err != nil {
		return nil, err
	}

	var replacement []Variant
	if input.Variants != nil {
		replacement = make([]Variant, 0, len(input.Variants))
		for i, in := range input.Variants {
			v := newVariantFromInput(productID, in)
			if err := normalizeVariant(v); err != nil {
				return nil, withVariantIndex(err, i)
			}
			replacement = append(replacement, *v)
		}
	}

	if err := applyProductUpdate(product, input); err != nil {
		return nil, err
	}
	updated, err := s.products.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}

	var variants []Variant
	if input.Variants != nil {
		if err := s.variants.DeleteByProduct(ctx, productID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete variants")
		}
		if len(replacement) > 0 {
			variants, err = s.variants.InsertMany(ctx, replacement)
			if err != nil {
				s.log.Error(ctx, "variant replacement failed after delete, product left without variants", err)
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert replacement variants")
			}
		}
	} else {
		variants, err = s.variants.ListByProduct(ctx, productID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list variants")
		}
	}

	return NewProductAggregateDTO(updated, variants), nil
}

// Delete removes a product and then its variants. Ownership is checked
// through the same not-found guard as every other operation.
func (s *productService) Delete(ctx context.Context, ownerID, productID primitive.ObjectID) (*ProductDTO, error) {
	product, err := s.guard.AssertOwned(ctx, productID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.products.Delete(ctx, productID, ownerID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if err := s.variants.DeleteByProduct(ctx, productID); err != nil {
		s.log.Error(ctx, "orphaned variants left behind after product delete", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete variants")
	}

	s.metrics.IncProductsDeleted()
	return NewProductDTO(product), nil
}

// ListMine returns every product owned by the caller with its variants. An
// empty catalog is reported as not found rather than an empty list.
func (s *productService) ListMine(ctx context.Context, ownerID primitive.ObjectID) ([]ProductAggregateDTO, error) {
	products, err := s.products.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	if len(products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no products found")
	}

	ids := make([]primitive.ObjectID, 0, len(products))
	for i := range products {
		ids = append(ids, products[i].ID)
	}
	variants, err := s.variants.ListByProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list variants")
	}

	byProduct := make(map[primitive.ObjectID][]Variant, len(products))
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}

	out := make([]ProductAggregateDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductAggregateDTO(&products[i], byProduct[products[i].ID]))
	}
	return out, nil
}

// Get returns one owned product with its variants.
func (s *productService) Get(ctx context.Context, ownerID, productID primitive.ObjectID) (*ProductAggregateDTO, error) {
	product, err := s.guard.AssertOwned(ctx, productID, ownerID)
	if err != nil {
		return nil, err
	}
	variants, err := s.variants.ListByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list variants")
	}
	return NewProductAggregateDTO(product, variants), nil
}

func buildAggregate(ownerID primitive.ObjectID, input CreateProductInput) (*Product, []Variant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product payload").
			WithDetails(map[string]any{"name": "name is required"})
	}
	status := input.Status
	if status == "" {
		status = enums.ProductStatusInStock
	}
	if !status.IsValid() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product payload").
			WithDetails(map[string]any{"status": "unknown product status"})
	}

	variants := make([]Variant, 0, len(input.Variants))
	for i, in := range input.Variants {
		v := newVariantFromInput(primitive.NilObjectID, in)
		if err := normalizeVariant(v); err != nil {
			return nil, nil, withVariantIndex(err, i)
		}
		variants = append(variants, *v)
	}

	product := &Product{
		Name:        name,
		Owner:       ownerID,
		Description: input.Description,
		Brand:       input.Brand,
		CategoryID:  input.CategoryID,
		Status:      status,
	}
	return product, variants, nil
}

func withVariantIndex(err error, index int) error {
	typed := pkgerrors.As(err)
	if typed == nil {
		return err
	}
	details := map[string]any{"variantIndex": index}
	switch fields := typed.Details().(type) {
	case map[string]any:
		for k, v := range fields {
			details[k] = v
		}
	case map[string]string:
		for k, v := range fields {
			details[k] = v
		}
	}
	return typed.WithDetails(details)
}

func applyProductUpdate(product *Product, input UpdateProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid product payload").
				WithDetails(map[string]any{"name": "name is required"})
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.Status != nil {
		product.Status = *input.Status
	}
	product.UpdatedAt = time.Now().UTC()
	return nil
}
