package categories

import (
	"context"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeCategoryStore struct {
	categories []Category
	insertErr  error
}

func (s *fakeCategoryStore) Insert(_ context.Context, category *Category) (*Category, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	now := time.Now().UTC()
	category.ID = primitive.NewObjectID()
	category.CreatedAt = now
	category.UpdatedAt = now
	s.categories = append(s.categories, *category)
	return category, nil
}

func (s *fakeCategoryStore) FindByID(_ context.Context, categoryID primitive.ObjectID) (*Category, error) {
	for i := range s.categories {
		if s.categories[i].ID == categoryID {
			found := s.categories[i]
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeCategoryStore) FindByName(_ context.Context, name string) (*Category, error) {
	for i := range s.categories {
		if strings.EqualFold(s.categories[i].Name, name) {
			found := s.categories[i]
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeCategoryStore) Update(_ context.Context, category *Category) (*Category, error) {
	for i := range s.categories {
		if s.categories[i].ID == category.ID {
			s.categories[i] = *category
			found := s.categories[i]
			return &found, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (s *fakeCategoryStore) Delete(_ context.Context, categoryID primitive.ObjectID) error {
	for i := range s.categories {
		if s.categories[i].ID == categoryID {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (s *fakeCategoryStore) List(_ context.Context) ([]Category, error) {
	return append([]Category{}, s.categories...), nil
}

func newTestService(t *testing.T) (Service, *fakeCategoryStore) {
	t.Helper()
	store := &fakeCategoryStore{}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func TestCreateCategory(t *testing.T) {
	t.Run("trimsAndPersists", func(t *testing.T) {
		svc, store := newTestService(t)
		created, err := svc.Create(context.Background(), "  Outerwear  ")
		if err != nil {
			t.Fatalf("create category: %v", err)
		}
		if created.Name != "Outerwear" {
			t.Fatalf("expected trimmed name, got %q", created.Name)
		}
		if len(store.categories) != 1 {
			t.Fatalf("expected 1 category, got %d", len(store.categories))
		}
	})

	t.Run("rejectsBlankName", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(context.Background(), "   ")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("rejectsDuplicateNameCaseInsensitive", func(t *testing.T) {
		svc, _ := newTestService(t)
		if _, err := svc.Create(context.Background(), "Outerwear"); err != nil {
			t.Fatalf("create category: %v", err)
		}
		_, err := svc.Create(context.Background(), "outerwear")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
			t.Fatalf("expected conflict, got %v", err)
		}
	})
}

func TestRenameCategory(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.Create(context.Background(), "Outerwear")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	id, err := primitive.ObjectIDFromHex(created.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}

	t.Run("renames", func(t *testing.T) {
		renamed, err := svc.Rename(context.Background(), id, "Jackets")
		if err != nil {
			t.Fatalf("rename: %v", err)
		}
		if renamed.Name != "Jackets" {
			t.Fatalf("expected Jackets, got %q", renamed.Name)
		}
	})

	t.Run("blankPatchKeepsName", func(t *testing.T) {
		kept, err := svc.Rename(context.Background(), id, "   ")
		if err != nil {
			t.Fatalf("rename: %v", err)
		}
		if kept.Name != "Jackets" {
			t.Fatalf("expected name kept, got %q", kept.Name)
		}
	})

	t.Run("missingCategory", func(t *testing.T) {
		_, err := svc.Rename(context.Background(), primitive.NewObjectID(), "Anything")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestDeleteCategory(t *testing.T) {
	svc, store := newTestService(t)
	created, err := svc.Create(context.Background(), "Outerwear")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	id, err := primitive.ObjectIDFromHex(created.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.categories) != 0 {
		t.Fatalf("expected store empty, got %d", len(store.categories))
	}

	err = svc.Delete(context.Background(), id)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListCategories(t *testing.T) {
	svc, _ := newTestService(t)
	for _, name := range []string{"Outerwear", "Footwear"} {
		if _, err := svc.Create(context.Background(), name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	listed, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(listed))
	}
}
