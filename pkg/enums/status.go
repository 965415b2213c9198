package enums

import "fmt"

// ProductStatus is the label stored on a product document. It is supplied by
// the owner (or defaulted) and is not derived from the product's variants.
type ProductStatus string

const (
	ProductStatusInStock    ProductStatus = "in-stock"
	ProductStatusOutOfStock ProductStatus = "out-of-stock"
	ProductStatusLowStock   ProductStatus = "low-stock"
)

var validProductStatuses = []ProductStatus{
	ProductStatusInStock,
	ProductStatusOutOfStock,
	ProductStatusLowStock,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}

// VariantStatus is the stock label derived from a variant's stock count on
// every write.
type VariantStatus string

const (
	VariantStatusInStock    VariantStatus = "in_stock"
	VariantStatusLowStock   VariantStatus = "low_stock"
	VariantStatusOutOfStock VariantStatus = "out_of_stock"
)

var validVariantStatuses = []VariantStatus{
	VariantStatusInStock,
	VariantStatusLowStock,
	VariantStatusOutOfStock,
}

// String implements fmt.Stringer.
func (s VariantStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known VariantStatus.
func (s VariantStatus) IsValid() bool {
	for _, candidate := range validVariantStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseVariantStatus converts raw input into a VariantStatus.
func ParseVariantStatus(value string) (VariantStatus, error) {
	for _, candidate := range validVariantStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid variant status %q", value)
}
