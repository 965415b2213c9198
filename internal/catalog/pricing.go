package catalog

import (
	"math"
	"strings"

	"github.com/rmarconi/threadline-backend/pkg/enums"
	pkgerrors "github.com/rmarconi/threadline-backend/pkg/errors"
)

// Variants with stock in (0, lowStockCeiling] are reported as low_stock.
const lowStockCeiling = 10

// round2 rounds to two decimal places, half away from zero on the cent
// value, so repeated recomputation never drifts.
func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// computeVariantPricing normalizes the discount pair of a variant. For
// non-discounted variants it forces both discount and discountPrice to zero
// regardless of what the caller sent. For discounted ones it validates the
// percentage and derives the discounted price.
func computeVariantPricing(price, discount float64, isDiscounted bool) (float64, float64, error) {
	if !isDiscounted {
		return 0, 0, nil
	}
	if discount <= 0 {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "discount is required for discounted variants").
			WithDetails(map[string]string{"discount": "must be greater than 0 when isDiscounted is true"})
	}
	if discount > 100 {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "discount cannot exceed 100").
			WithDetails(map[string]string{"discount": "must be at most 100"})
	}
	candidate := price - price*discount/100
	if candidate <= 0 {
		return 0, 0, pkgerrors.New(pkgerrors.CodeValidation, "discount results in invalid price").
			WithDetails(map[string]string{"discount": "resulting price must be greater than 0"})
	}
	return discount, round2(candidate), nil
}

// StockStatus derives the stock label from the stock count.
func StockStatus(stock int) enums.VariantStatus {
	switch {
	case stock == 0:
		return enums.VariantStatusOutOfStock
	case stock <= lowStockCeiling:
		return enums.VariantStatusLowStock
	default:
		return enums.VariantStatusInStock
	}
}

// normalizeVariant is the single choke point every variant write funnels
// through: it validates the source fields and recomputes BOTH derived
// fields (status, discountPrice) in place, whatever subset of fields the
// caller changed. Idempotent: running it twice on persisted values is a
// no-op.
func normalizeVariant(v *Variant) error {
	v.Size = strings.TrimSpace(v.Size)
	v.Color = strings.TrimSpace(v.Color)

	fieldErrors := map[string]string{}
	if v.Size == "" {
		fieldErrors["size"] = "is required"
	}
	if v.Color == "" {
		fieldErrors["color"] = "is required"
	}
	if v.Price < 0 {
		fieldErrors["price"] = "must be at least 0"
	}
	if v.Stock < 0 {
		fieldErrors["stock"] = "must be at least 0"
	}
	if len(fieldErrors) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid variant").WithDetails(fieldErrors)
	}

	discount, discountPrice, err := computeVariantPricing(v.Price, v.Discount, v.IsDiscounted)
	if err != nil {
		return err
	}
	v.Discount = discount
	v.DiscountPrice = discountPrice
	v.Status = StockStatus(v.Stock)
	return nil
}
