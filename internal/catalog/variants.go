package catalog

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// VariantInput holds the caller-supplied fields of a variant. There is
// deliberately no discountPrice here: derived fields are computed
// server-side on every write.
type VariantInput struct {
	Size         string
	Color        string
	Price        float64
	Stock        int
	IsDiscounted bool
	Discount     float64
}

// UpdateVariantInput holds optional mutation values for a variant. Nil
// fields keep their persisted values; derived fields are recomputed from the
// merged result either way.
type UpdateVariantInput struct {
	Size         *string
	Color        *string
	Price        *float64
	Stock        *int
	IsDiscounted *bool
	Discount     *float64
}

type variantStore interface {
	Insert(ctx context.Context, variant *Variant) (*Variant, error)
	InsertMany(ctx context.Context, variants []Variant) ([]Variant, error)
	FindUnderProduct(ctx context.Context, variantID, productID primitive.ObjectID) (*Variant, error)
	Replace(ctx context.Context, variant *Variant) (*Variant, error)
	Delete(ctx context.Context, variantID, productID primitive.ObjectID) error
	DeleteByProduct(ctx context.Context, productID primitive.ObjectID) error
	ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]Variant, error)
	ListByProducts(ctx context.Context, productIDs []primitive.ObjectID) ([]Variant, error)
}

// VariantService exposes variant management, always scoped under an owned
// product.
type VariantService interface {
	Add(ctx context.Context, ownerID, productID primitive.ObjectID, input VariantInput) (*VariantDTO, error)
	Update(ctx context.Context, ownerID, productID, variantID primitive.ObjectID, input UpdateVariantInput) (*VariantDTO, error)
	Delete(ctx context.Context, ownerID, productID, variantID primitive.ObjectID) (*VariantDTO, error)
}

type variantService struct {
	variants variantStore
	guard    *OwnershipGuard
}

// NewVariantService constructs a variant service instance.
func NewVariantService(variants variantStore, guard *OwnershipGuard) (VariantService, error) {
	if variants == nil {
		return nil, fmt.Errorf("variant store required")
	}
	if guard == nil {
		return nil, fmt.Errorf("ownership guard required")
	}
	return &variantService{variants: variants, guard: guard}, nil
}

// Add creates one variant under an existing product.
func (s *variantService) Add(ctx context.Context, ownerID, productID primitive.ObjectID, input VariantInput) (*VariantDTO, error) {
	if _, err := s.guard.AssertOwned(ctx, productID, ownerID); err != nil {
		return nil, err
	}

	variant := newVariantFromInput(productID, input)
	if err := normalizeVariant(variant); err != nil {
		return nil, err
	}

	created, err := s.variants.Insert(ctx, variant)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert variant")
	}
	return NewVariantDTO(created), nil
}

// Update merges the partial input over the persisted variant and recomputes
// both derived fields before saving. A stock-only patch re-derives status
// without touching discountPrice; a price-only patch recomputes
// discountPrice against the persisted discount.
func (s *variantService) Update(ctx context.Context, ownerID, productID, variantID primitive.ObjectID, input UpdateVariantInput) (*VariantDTO, error) {
	if _, err := s.guard.AssertOwned(ctx, productID, ownerID); err != nil {
		return nil, err
	}

	variant, err := s.variants.FindUnderProduct(ctx, variantID, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}

	applyVariantUpdate(variant, input)
	if err := normalizeVariant(variant); err != nil {
		return nil, err
	}

	updated, err := s.variants.Replace(ctx, variant)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace variant")
	}
	return NewVariantDTO(updated), nil
}

// Delete removes a variant and returns its last persisted snapshot.
func (s *variantService) Delete(ctx context.Context, ownerID, productID, variantID primitive.ObjectID) (*VariantDTO, error) {
	if _, err := s.guard.AssertOwned(ctx, productID, ownerID); err != nil {
		return nil, err
	}

	variant, err := s.variants.FindUnderProduct(ctx, variantID, productID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}

	if err := s.variants.Delete(ctx, variantID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete variant")
	}
	return NewVariantDTO(variant), nil
}

func newVariantFromInput(productID primitive.ObjectID, input VariantInput) *Variant {
	return &Variant{
		ProductID:    productID,
		Size:         input.Size,
		Color:        input.Color,
		Price:        input.Price,
		Stock:        input.Stock,
		IsDiscounted: input.IsDiscounted,
		Discount:     input.Discount,
	}
}

func applyVariantUpdate(variant *Variant, input UpdateVariantInput) {
	if input.Size != nil {
		variant.Size = *input.Size
	}
	if input.Color != nil {
		variant.Color = *input.Color
	}
	if input.Price != nil {
		variant.Price = *input.Price
	}
	if input.Stock != nil {
		variant.Stock = *input.Stock
	}
	if input.IsDiscounted != nil {
		variant.IsDiscounted = *input.IsDiscounted
	}
	if input.Discount != nil {
		variant.Discount = *input.Discount
	}
}
