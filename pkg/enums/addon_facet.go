package enums

import "fmt"

// AddonFacet names one of the selectable extras a cart line may carry. At
// most one option per facet can be selected.
type AddonFacet string

const (
	AddonFacetDip      AddonFacet = "dip"
	AddonFacetBeverage AddonFacet = "beverage"
	AddonFacetDrink    AddonFacet = "drink"
)

var validAddonFacets = []AddonFacet{
	AddonFacetDip,
	AddonFacetBeverage,
	AddonFacetDrink,
}

// String implements fmt.Stringer.
func (a AddonFacet) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AddonFacet.
func (a AddonFacet) IsValid() bool {
	for _, candidate := range validAddonFacets {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAddonFacet converts raw input into an AddonFacet.
func ParseAddonFacet(value string) (AddonFacet, error) {
	for _, candidate := range validAddonFacets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid addon facet %q", value)
}
