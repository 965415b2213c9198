package catalog

import (
	"time"

	"github.com/rmarconi/threadline-backend/pkg/enums"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is the owning side of the catalog aggregate. Its variants live in
// their own collection and reference it through product_id.
type Product struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name"`
	Owner       primitive.ObjectID  `bson:"owner" json:"owner"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Brand       string              `bson:"brand,omitempty" json:"brand,omitempty"`
	CategoryID  *primitive.ObjectID `bson:"category_id,omitempty" json:"category_id,omitempty"`
	Status      enums.ProductStatus `bson:"status" json:"status"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Variant is a purchasable size/color combination of a product. Status and
// DiscountPrice are derived; they are recomputed on every write and never
// accepted from a caller.
type Variant struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProductID     primitive.ObjectID  `bson:"product_id" json:"product_id"`
	Size          string              `bson:"size" json:"size"`
	Color         string              `bson:"color" json:"color"`
	Price         float64             `bson:"price" json:"price"`
	Stock         int                 `bson:"stock" json:"stock"`
	Status        enums.VariantStatus `bson:"status" json:"status"`
	IsDiscounted  bool                `bson:"isDiscounted" json:"isDiscounted"`
	Discount      float64             `bson:"discount" json:"discount"`
	DiscountPrice float64             `bson:"discountPrice" json:"discountPrice"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}
