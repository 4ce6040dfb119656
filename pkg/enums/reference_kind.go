package enums

import "fmt"

// ReferenceKind tags which entity an activity row points back to. It replaces
// the untyped (content type, object id) pair the legacy ledger used.
type ReferenceKind string

const (
	ReferenceKindOrder         ReferenceKind = "order"
	ReferenceKindCashoutMethod ReferenceKind = "cashout_method"
	ReferenceKindActivity      ReferenceKind = "activity"
)

var validReferenceKinds = []ReferenceKind{
	ReferenceKindOrder,
	ReferenceKindCashoutMethod,
	ReferenceKindActivity,
}

// IsValid reports whether the value matches the canonical reference kind enum.
func (k ReferenceKind) IsValid() bool {
	for _, candidate := range validReferenceKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseReferenceKind converts raw input into ReferenceKind.
func ParseReferenceKind(value string) (ReferenceKind, error) {
	for _, candidate := range validReferenceKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reference kind %q", value)
}
