package catalog

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rmarconi/threadline-backend/pkg/logger"
	"github.com/rmarconi/threadline-backend/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeProductStore struct {
	products  []Product
	insertErr error
	updateErr error
	deleteErr error
	listErr   error
}

func (s *fakeProductStore) Insert(_ context.Context, product *Product) (*Product, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products = append(s.products, *product)
	return product, nil
}

func (s *fakeProductStore) FindOwned(_ context.Context, productID, ownerID primitive.ObjectID) (*Product, error) {
	for i := range s.products {
		if s.products[i].ID == productID && s.products[i].Owner == ownerID {
			found := s.products[i]
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeProductStore) Update(_ context.Context, product *Product) (*Product, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	for i := range s.products {
		if s.products[i].ID == product.ID && s.products[i].Owner == product.Owner {
			s.products[i] = *product
			found := s.products[i]
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeProductStore) Delete(_ context.Context, productID, ownerID primitive.ObjectID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i := range s.products {
		if s.products[i].ID == productID && s.products[i].Owner == ownerID {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (s *fakeProductStore) ListByOwner(_ context.Context, ownerID primitive.ObjectID) ([]Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []Product{}
	for i := range s.products {
		if s.products[i].Owner == ownerID {
			out = append(out, s.products[i])
		}
	}
	return out, nil
}

type fakeVariantStore struct {
	variants      []Variant
	insertErr     error
	insertManyErr error
	replaceErr    error
	deleteErr     error
	listErr       error
}

func (s *fakeVariantStore) Insert(_ context.Context, variant *Variant) (*Variant, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	now := time.Now().UTC()
	variant.ID = primitive.NewObjectID()
	variant.CreatedAt = now
	variant.UpdatedAt = now
	s.variants = append(s.variants, *variant)
	return variant, nil
}

func (s *fakeVariantStore) InsertMany(_ context.Context, variants []Variant) ([]Variant, error) {
	if s.insertManyErr != nil {
		return nil, s.insertManyErr
	}
	now := time.Now().UTC()
	for i := range variants {
		variants[i].ID = primitive.NewObjectID()
		variants[i].CreatedAt = now
		variants[i].UpdatedAt = now
		s.variants = append(s.variants, variants[i])
	}
	return variants, nil
}

func (s *fakeVariantStore) FindUnderProduct(_ context.Context, variantID, productID primitive.ObjectID) (*Variant, error) {
	for i := range s.variants {
		if s.variants[i].ID == variantID && s.variants[i].ProductID == productID {
			found := s.variants[i]
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeVariantStore) Replace(_ context.Context, variant *Variant) (*Variant, error) {
	if s.replaceErr != nil {
		return nil, s.replaceErr
	}
	for i := range s.variants {
		if s.variants[i].ID == variant.ID && s.variants[i].ProductID == variant.ProductID {
			s.variants[i] = *variant
			found := s.variants[i]
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeVariantStore) Delete(_ context.Context, variantID, productID primitive.ObjectID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	for i := range s.variants {
		if s.variants[i].ID == variantID && s.variants[i].ProductID == productID {
			s.variants = append(s.variants[:i], s.variants[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (s *fakeVariantStore) DeleteByProduct(_ context.Context, productID primitive.ObjectID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	kept := s.variants[:0]
	for i := range s.variants {
		if s.variants[i].ProductID != productID {
			kept = append(kept, s.variants[i])
		}
	}
	s.variants = kept
	return nil
}

func (s *fakeVariantStore) ListByProduct(_ context.Context, productID primitive.ObjectID) ([]Variant, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []Variant{}
	for i := range s.variants {
		if s.variants[i].ProductID == productID {
			out = append(out, s.variants[i])
		}
	}
	return out, nil
}

func (s *fakeVariantStore) ListByProducts(_ context.Context, productIDs []primitive.ObjectID) ([]Variant, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	wanted := map[primitive.ObjectID]bool{}
	for _, id := range productIDs {
		wanted[id] = true
	}
	out := []Variant{}
	for i := range s.variants {
		if wanted[s.variants[i].ProductID] {
			out = append(out, s.variants[i])
		}
	}
	return out, nil
}

// fakeTx mimics WithTxFallback: the callback runs directly and the atomic
// flag reports whether the writes would have been transactional. A startErr
// fails the call before the callback runs, like a session that never opens.
type fakeTx struct {
	atomic   bool
	startErr error
}

func (f *fakeTx) WithTxFallback(ctx context.Context, fn func(ctx context.Context) error) (bool, error) {
	if f.startErr != nil {
		return false, f.startErr
	}
	return f.atomic, fn(ctx)
}

type testCatalog struct {
	products *fakeProductStore
	variants *fakeVariantStore
	service  ProductService
	variant  VariantService
}

func newTestCatalog(t *testing.T) *testCatalog {
	t.Helper()
	return newTestCatalogWith(t, &fakeTx{}, io.Discard)
}

func newTestCatalogWith(t *testing.T, tx *fakeTx, logOut io.Writer) *testCatalog {
	t.Helper()
	products := &fakeProductStore{}
	variants := &fakeVariantStore{}
	guard := NewOwnershipGuard(products)
	log := logger.New(logger.Options{ServiceName: "catalog-test", Output: logOut})

	svc, err := NewProductService(products, variants, guard, tx, metrics.NewCatalogMetrics(nil), log)
	if err != nil {
		t.Fatalf("new product service: %v", err)
	}
	vsvc, err := NewVariantService(variants, guard)
	if err != nil {
		t.Fatalf("new variant service: %v", err)
	}
	return &testCatalog{products: products, variants: variants, service: svc, variant: vsvc}
}

func mustCreateProduct(t *testing.T, c *testCatalog, ownerID primitive.ObjectID, variants ...VariantInput) *ProductAggregateDTO {
	t.Helper()
	created, err := c.service.Create(context.Background(), ownerID, CreateProductInput{
		Name:     "Denim Jacket",
		Brand:    "Threadline",
		Variants: variants,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return created
}

func mustObjectID(t *testing.T, hex string) primitive.ObjectID {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("parse object id: %v", err)
	}
	return id
}
