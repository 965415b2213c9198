package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type categoryStore interface {
	Insert(ctx context.Context, category *Category) (*Category, error)
	FindByID(ctx context.Context, categoryID primitive.ObjectID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	Update(ctx context.Context, category *Category) (*Category, error)
	Delete(ctx context.Context, categoryID primitive.ObjectID) error
	List(ctx context.Context) ([]Category, error)
}

// Service exposes category management.
type Service interface {
	Create(ctx context.Context, name string) (*CategoryDTO, error)
	Get(ctx context.Context, categoryID primitive.ObjectID) (*CategoryDTO, error)
	List(ctx context.Context) ([]CategoryDTO, error)
	Rename(ctx context.Context, categoryID primitive.ObjectID, name string) (*CategoryDTO, error)
	Delete(ctx context.Context, categoryID primitive.ObjectID) error
}

type service struct {
	categories categoryStore
}

// NewService constructs a category service instance.
func NewService(categories categoryStore) (Service, error) {
	if categories == nil {
		return nil, fmt.Errorf("category store required")
	}
	return &service{categories: categories}, nil
}

func (s *service) Create(ctx context.Context, name string) (*CategoryDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category payload").
			WithDetails(map[string]string{"name": "is required"})
	}

	existing, err := s.categories.FindByName(ctx, name)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find category")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists").
			WithDetails(map[string]string{"name": "a category with this name exists"})
	}

	created, err := s.categories.Insert(ctx, &Category{Name: name})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return NewCategoryDTO(created), nil
}

func (s *service) Get(ctx context.Context, categoryID primitive.ObjectID) (*CategoryDTO, error) {
	category, err := s.findCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return NewCategoryDTO(category), nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *NewCategoryDTO(&categories[i]))
	}
	return out, nil
}

// Rename keeps the current name when the patch is blank, matching update
// semantics elsewhere where omitted fields are left alone.
func (s *service) Rename(ctx context.Context, categoryID primitive.ObjectID, name string) (*CategoryDTO, error) {
	category, err := s.findCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		category.Name = name
	}
	updated, err := s.categories.Update(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return NewCategoryDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, categoryID primitive.ObjectID) error {
	if _, err := s.findCategory(ctx, categoryID); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	return nil
}

func (s *service) findCategory(ctx context.Context, categoryID primitive.ObjectID) (*Category, error) {
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find category")
	}
	return category, nil
}
