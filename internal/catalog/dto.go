package catalog

import (
	"time"

	"github.com/rmarconi/threadline-backend/pkg/enums"
)

// VariantDTO is the caller-facing shape of a variant, enriched with the
// computed final price and savings.
type VariantDTO struct {
	ID            string              `json:"id"`
	ProductID     string              `json:"product_id"`
	Size          string              `json:"size"`
	Color         string              `json:"color"`
	Price         float64             `json:"price"`
	Stock         int                 `json:"stock"`
	Status        enums.VariantStatus `json:"status"`
	IsDiscounted  bool                `json:"isDiscounted"`
	Discount      float64             `json:"discount"`
	DiscountPrice float64             `json:"discountPrice"`
	FinalPrice    float64             `json:"finalPrice"`
	Savings       float64             `json:"savings"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// NewVariantDTO builds the response shape for a persisted variant.
func NewVariantDTO(v *Variant) *VariantDTO {
	finalPrice := v.Price
	if v.IsDiscounted {
		finalPrice = v.DiscountPrice
	}
	return &VariantDTO{
		ID:            v.ID.Hex(),
		ProductID:     v.ProductID.Hex(),
		Size:          v.Size,
		Color:         v.Color,
		Price:         v.Price,
		Stock:         v.Stock,
		Status:        v.Status,
		IsDiscounted:  v.IsDiscounted,
		Discount:      v.Discount,
		DiscountPrice: v.DiscountPrice,
		FinalPrice:    finalPrice,
		Savings:       round2(v.Price - finalPrice),
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

// ProductDTO is the caller-facing shape of a product.
type ProductDTO struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Owner       string              `json:"owner"`
	Description string              `json:"description,omitempty"`
	Brand       string              `json:"brand,omitempty"`
	CategoryID  string              `json:"category_id,omitempty"`
	Status      enums.ProductStatus `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// NewProductDTO builds the response shape for a persisted product.
func NewProductDTO(p *Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Owner:       p.Owner.Hex(),
		Description: p.Description,
		Brand:       p.Brand,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CategoryID != nil {
		dto.CategoryID = p.CategoryID.Hex()
	}
	return dto
}

// ProductAggregateDTO pairs a product with its variant set.
type ProductAggregateDTO struct {
	Product  *ProductDTO   `json:"product"`
	Variants []*VariantDTO `json:"variants"`
}

// NewProductAggregateDTO builds the aggregate response shape.
func NewProductAggregateDTO(p *Product, variants []Variant) *ProductAggregateDTO {
	out := &ProductAggregateDTO{
		Product:  NewProductDTO(p),
		Variants: make([]*VariantDTO, 0, len(variants)),
	}
	for i := range variants {
		out.Variants = append(out.Variants, NewVariantDTO(&variants[i]))
	}
	return out
}
