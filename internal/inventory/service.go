package inventory

import (
	"context"
	"fmt"

	"github.com/rmarconi/threadline-backend/internal/catalog"
	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Variants at or below this stock count are flagged for restocking.
const lowStockThreshold = 10

// VariantStock is one row of the inventory report.
type VariantStock struct {
	VariantID   string `json:"variantId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Stock       int    `json:"stock"`
	LowStock    bool   `json:"lowStock"`
}

// Report is the per-owner stock roll-up.
type Report struct {
	TotalItems int            `json:"totalItems"`
	Variants   []VariantStock `json:"variants"`
}

type productLister interface {
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]catalog.Product, error)
}

type variantLister interface {
	ListByProducts(ctx context.Context, productIDs []primitive.ObjectID) ([]catalog.Variant, error)
}

// Service aggregates stock counts across everything an owner sells.
type Service interface {
	Report(ctx context.Context, ownerID primitive.ObjectID) (*Report, error)
}

type service struct {
	products productLister
	variants variantLister
}

// NewService constructs an inventory service instance.
func NewService(products productLister, variants variantLister) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product lister required")
	}
	if variants == nil {
		return nil, fmt.Errorf("variant lister required")
	}
	return &service{products: products, variants: variants}, nil
}

// Report sums stock across the owner's variants and flags each row that
// needs restocking. An owner without products gets an empty report, not an
// error.
func (s *service) Report(ctx context.Context, ownerID primitive.ObjectID) (*Report, error) {
	products, err := s.products.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	names := make(map[primitive.ObjectID]string, len(products))
	productIDs := make([]primitive.ObjectID, 0, len(products))
	for i := range products {
		names[products[i].ID] = products[i].Name
		productIDs = append(productIDs, products[i].ID)
	}

	variants, err := s.variants.ListByProducts(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list variants")
	}

	report := &Report{Variants: make([]VariantStock, 0, len(variants))}
	for i := range variants {
		v := &variants[i]
		report.TotalItems += v.Stock
		report.Variants = append(report.Variants, VariantStock{
			VariantID:   v.ID.Hex(),
			ProductID:   v.ProductID.Hex(),
			ProductName: names[v.ProductID],
			Size:        v.Size,
			Color:       v.Color,
			Stock:       v.Stock,
			LowStock:    v.Stock <= lowStockThreshold,
		})
	}
	return report, nil
}
