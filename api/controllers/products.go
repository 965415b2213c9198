package controllers

import (
	"net/http"
	"strings"

	"github.com/rmarconi/threadline-backend/api/middleware"
	"github.com/rmarconi/threadline-backend/api/responses"
	"github.com/rmarconi/threadline-backend/api/validators"
	"github.com/rmarconi/threadline-backend/internal/catalog"
	"github.com/rmarconi/threadline-backend/pkg/enums"
	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
	"github.com/rmarconi/threadline-backend/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ownerFromContext(r *http.Request) (primitive.ObjectID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return primitive.NilObjectID, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

type variantRequest struct {
	Size         string  `json:"size" validate:"required"`
	Color        string  `json:"color" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	Stock        int     `json:"stock" validate:"gte=0"`
	IsDiscounted bool    `json:"isDiscounted"`
	Discount     float64 `json:"discount" validate:"gte=0,lte=100"`
}

func (v variantRequest) toInput() catalog.VariantInput {
	return catalog.VariantInput{
		Size:         v.Size,
		Color:        v.Color,
		Price:        v.Price,
		Stock:        v.Stock,
		IsDiscounted: v.IsDiscounted,
		Discount:     v.Discount,
	}
}

type createProductRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description,omitempty"`
	Brand       string           `json:"brand,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
	Status      *string          `json:"status,omitempty"`
	Variants    []variantRequest `json:"variants,omitempty" validate:"omitempty,dive"`
}

func (req createProductRequest) toInput() (catalog.CreateProductInput, error) {
	input := catalog.CreateProductInput{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Brand:       req.Brand,
	}

	if req.CategoryID != nil {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(*req.CategoryID))
		if err != nil {
			return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		input.CategoryID = &id
	}
	if req.Status != nil {
		status, err := enums.ParseProductStatus(strings.TrimSpace(*req.Status))
		if err != nil {
			return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = status
	}
	for _, v := range req.Variants {
		input.Variants = append(input.Variants, v.toInput())
	}
	return input, nil
}

type updateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
	Status      *string          `json:"status,omitempty"`
	Variants    []variantRequest `json:"variants,omitempty" validate:"omitempty,dive"`
}

func (req updateProductRequest) toInput() (catalog.UpdateProductInput, error) {
	input := catalog.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
	}

	if req.CategoryID != nil {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(*req.CategoryID))
		if err != nil {
			return catalog.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		input.CategoryID = &id
	}
	if req.Status != nil {
		status, err := enums.ParseProductStatus(strings.TrimSpace(*req.Status))
		if err != nil {
			return catalog.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}
	if req.Variants != nil {
		input.Variants = make([]catalog.VariantInput, 0, len(req.Variants))
		for _, v := range req.Variants {
			input.Variants = append(input.Variants, v.toInput())
		}
	}
	return input, nil
}

// ListMyProducts returns every product the caller owns, with variants.
func ListMyProducts(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListMine(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

// CreateProduct handles aggregate creation: the product plus its initial
// variant batch.
func CreateProduct(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), ownerID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// GetProduct returns one owned product with its variants.
func GetProduct(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseObjectIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), ownerID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// UpdateProduct applies a partial patch, optionally replacing the variant set.
func UpdateProduct(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseObjectIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), ownerID, productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// DeleteProduct removes a product and all of its variants.
func DeleteProduct(svc catalog.ProductService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		ownerID, err := ownerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParseObjectIDParam(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deleted, err := svc.Delete(r.Context(), ownerID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, deleted)
	}
}
