package enums

import "fmt"

// ShopSectionKind identifies the widget a shop page section renders as.
type ShopSectionKind string

const (
	ShopSectionKindHero        ShopSectionKind = "hero"
	ShopSectionKindProductGrid ShopSectionKind = "product_grid"
	ShopSectionKindRichText    ShopSectionKind = "rich_text"
	ShopSectionKindBanner      ShopSectionKind = "banner"
)

var validShopSectionKinds = []ShopSectionKind{
	ShopSectionKindHero,
	ShopSectionKindProductGrid,
	ShopSectionKindRichText,
	ShopSectionKindBanner,
}

// IsValid reports whether the value matches the canonical section kind enum.
func (k ShopSectionKind) IsValid() bool {
	for _, candidate := range validShopSectionKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseShopSectionKind converts raw input into ShopSectionKind.
func ParseShopSectionKind(value string) (ShopSectionKind, error) {
	for _, candidate := range validShopSectionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shop section kind %q", value)
}
