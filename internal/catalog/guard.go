package catalog

import (
	"context"
	"errors"

	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ownedProductFinder interface {
	FindOwned(ctx context.Context, productID, ownerID primitive.ObjectID) (*Product, error)
}

// OwnershipGuard binds a product, and transitively its variants, to the user
// that created it. Every mutation of a specific product passes through
// AssertOwned first.
type OwnershipGuard struct {
	products ownedProductFinder
}

// NewOwnershipGuard constructs the guard over a product reader.
func NewOwnershipGuard(products ownedProductFinder) *OwnershipGuard {
	return &OwnershipGuard{products: products}
}

// AssertOwned resolves the product for the given owner. A product that does
// not exist and a product owned by someone else fail identically, so callers
// never learn about other users' products.
func (g *OwnershipGuard) AssertOwned(ctx context.Context, productID, ownerID primitive.ObjectID) (*Product, error) {
	product, err := g.products.FindOwned(ctx, productID, ownerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}
