package enums

import "fmt"

// PartnerStatus marks whether a delivery partner can take assignments.
type PartnerStatus string

const (
	PartnerStatusActive   PartnerStatus = "active"
	PartnerStatusInactive PartnerStatus = "inactive"
)

var validPartnerStatuses = []PartnerStatus{
	PartnerStatusActive,
	PartnerStatusInactive,
}

// String implements fmt.Stringer.
func (p PartnerStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PartnerStatus.
func (p PartnerStatus) IsValid() bool {
	for _, candidate := range validPartnerStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePartnerStatus converts raw input into a PartnerStatus.
func ParsePartnerStatus(value string) (PartnerStatus, error) {
	for _, candidate := range validPartnerStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid partner status %q", value)
}
