package enums

import "fmt"

// ActivityType maps to the activity_type_enum enum in Postgres.
type ActivityType string

const (
	ActivityTypeReferralLinkUsage ActivityType = "referral_link_usage"
	ActivityTypeCashout           ActivityType = "cashout"
	ActivityTypeCashoutFee        ActivityType = "cashout_fee"
	ActivityTypeAdjustment        ActivityType = "adjustment"
)

var validActivityTypes = []ActivityType{
	ActivityTypeReferralLinkUsage,
	ActivityTypeCashout,
	ActivityTypeCashoutFee,
	ActivityTypeAdjustment,
}

// IsValid reports whether the value matches the canonical activity type enum.
func (t ActivityType) IsValid() bool {
	for _, candidate := range validActivityTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseActivityType converts raw input into ActivityType.
func ParseActivityType(value string) (ActivityType, error) {
	for _, candidate := range validActivityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity type %q", value)
}

// Description returns the human-readable ledger line for each activity type.
// Adding a type without extending this switch is a bug; the default branch
// exists only to make that bug loud.
func (t ActivityType) Description() string {
	switch t {
	case ActivityTypeReferralLinkUsage:
		return "Commission for referral link usage"
	case ActivityTypeCashout:
		return "Wallet cashout"
	case ActivityTypeCashoutFee:
		return "Cashout processing fee"
	case ActivityTypeAdjustment:
		return "Manual adjustment"
	default:
		return fmt.Sprintf("Unknown activity %q", string(t))
	}
}
