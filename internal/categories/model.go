package categories

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category labels products. Names are kept unique by convention; the
// repository checks for an existing name on create.
type Category struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CategoryDTO is the caller-facing shape of a category.
type CategoryDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCategoryDTO builds the response shape for a persisted category.
func NewCategoryDTO(c *Category) *CategoryDTO {
	return &CategoryDTO{
		ID:        c.ID.Hex(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
