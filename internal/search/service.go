package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/rmarconi/threadline-backend/internal/catalog"
	"github.com/rmarconi/threadline-backend/internal/categories"
	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
	"github.com/rmarconi/threadline-backend/pkg/pagination"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order controls created-date sorting.
type Order string

const (
	OrderNewest Order = "newest"
	OrderOldest Order = "oldest"
)

type searchStore interface {
	FindProductsByName(ctx context.Context, term string) ([]catalog.Product, error)
	FindProductsByCategoryIDs(ctx context.Context, categoryIDs []primitive.ObjectID) ([]catalog.Product, error)
	FindProductsByIDs(ctx context.Context, productIDs []primitive.ObjectID) ([]catalog.Product, error)
	ListProductsByCreated(ctx context.Context, newestFirst bool, cursor *pagination.Cursor, limit int) ([]catalog.Product, error)
	FindVariantsBySize(ctx context.Context, term string) ([]catalog.Variant, error)
	FindVariantsByColor(ctx context.Context, term string) ([]catalog.Variant, error)
	ListVariantsByProducts(ctx context.Context, productIDs []primitive.ObjectID) ([]catalog.Variant, error)
	FindCategoriesByName(ctx context.Context, term string) ([]categories.Category, error)
}

// CreatedList is one page of the catalog ordered by creation date.
type CreatedList struct {
	Products   []catalog.ProductAggregateDTO `json:"products"`
	NextCursor string                        `json:"next_cursor,omitempty"`
}

// Service answers catalog-wide lookups. Matching is case-insensitive
// substring only, and results always carry the variants of each product.
type Service interface {
	ByName(ctx context.Context, name string) ([]catalog.ProductAggregateDTO, error)
	ByCategory(ctx context.Context, category string) ([]catalog.ProductAggregateDTO, error)
	ByCreated(ctx context.Context, order Order, page pagination.Params) (*CreatedList, error)
	BySize(ctx context.Context, size string) ([]catalog.ProductAggregateDTO, error)
	ByColor(ctx context.Context, color string) ([]catalog.ProductAggregateDTO, error)
}

type service struct {
	store searchStore
}

// NewService constructs a search service instance.
func NewService(store searchStore) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("search store required")
	}
	return &service{store: store}, nil
}

func (s *service) ByName(ctx context.Context, name string) ([]catalog.ProductAggregateDTO, error) {
	products, err := s.store.FindProductsByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: search products")
	}
	if len(products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no products found")
	}
	return s.attachVariants(ctx, products)
}

func (s *service) ByCategory(ctx context.Context, category string) ([]catalog.ProductAggregateDTO, error) {
	matched, err := s.store.FindCategoriesByName(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: search categories")
	}
	if len(matched) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no category found")
	}

	categoryIDs := make([]primitive.ObjectID, 0, len(matched))
	for i := range matched {
		categoryIDs = append(categoryIDs, matched[i].ID)
	}
	products, err := s.store.FindProductsByCategoryIDs(ctx, categoryIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: search products")
	}
	return s.attachVariants(ctx, products)
}

func (s *service) ByCreated(ctx context.Context, order Order, page pagination.Params) (*CreatedList, error) {
	if order != OrderNewest && order != OrderOldest {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order parameter").
			WithDetails(map[string]string{"order": `must be "newest" or "oldest"`})
	}
	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor parameter")
	}

	limit := pagination.NormalizeLimit(page.Limit)
	products, err := s.store.ListProductsByCreated(ctx, order == OrderNewest, cursor, pagination.LimitWithBuffer(page.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	next := ""
	if len(products) > limit {
		products = products[:limit]
		last := products[len(products)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	aggregates, err := s.attachVariants(ctx, products)
	if err != nil {
		return nil, err
	}
	return &CreatedList{Products: aggregates, NextCursor: next}, nil
}

func (s *service) BySize(ctx context.Context, size string) ([]catalog.ProductAggregateDTO, error) {
	variants, err := s.store.FindVariantsBySize(ctx, strings.TrimSpace(size))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: search variants")
	}
	return s.productsFromVariants(ctx, variants)
}

func (s *service) ByColor(ctx context.Context, color string) ([]catalog.ProductAggregateDTO, error) {
	variants, err := s.store.FindVariantsByColor(ctx, strings.TrimSpace(color))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: search variants")
	}
	return s.productsFromVariants(ctx, variants)
}

func (s *service) attachVariants(ctx context.Context, products []catalog.Product) ([]catalog.ProductAggregateDTO, error) {
	productIDs := make([]primitive.ObjectID, 0, len(products))
	for i := range products {
		productIDs = append(productIDs, products[i].ID)
	}
	variants, err := s.store.ListVariantsByProducts(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list variants")
	}
	return groupAggregates(products, variants), nil
}

// productsFromVariants resolves the products behind variant matches. Only
// the variants that actually matched are attached, not the full set.
func (s *service) productsFromVariants(ctx context.Context, variants []catalog.Variant) ([]catalog.ProductAggregateDTO, error) {
	if len(variants) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no variants found")
	}

	seen := map[primitive.ObjectID]bool{}
	productIDs := []primitive.ObjectID{}
	for i := range variants {
		if !seen[variants[i].ProductID] {
			seen[variants[i].ProductID] = true
			productIDs = append(productIDs, variants[i].ProductID)
		}
	}

	products, err := s.store.FindProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find products")
	}
	return groupAggregates(products, variants), nil
}

func groupAggregates(products []catalog.Product, variants []catalog.Variant) []catalog.ProductAggregateDTO {
	byProduct := map[primitive.ObjectID][]catalog.Variant{}
	for _, v := range variants {
		byProduct[v.ProductID] = append(byProduct[v.ProductID], v)
	}

	out := make([]catalog.ProductAggregateDTO, 0, len(products))
	for i := range products {
		out = append(out, *catalog.NewProductAggregateDTO(&products[i], byProduct[products[i].ID]))
	}
	return out
}
