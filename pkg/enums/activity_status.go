package enums

import "fmt"

// ActivityStatus maps to the activity_status_enum enum in Postgres.
type ActivityStatus string

const (
	ActivityStatusPending  ActivityStatus = "pending"
	ActivityStatusDone     ActivityStatus = "done"
	ActivityStatusRejected ActivityStatus = "rejected"
)

var validActivityStatuses = []ActivityStatus{
	ActivityStatusPending,
	ActivityStatusDone,
	ActivityStatusRejected,
}

// IsValid reports whether the value matches the canonical activity status enum.
func (s ActivityStatus) IsValid() bool {
	for _, candidate := range validActivityStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseActivityStatus converts raw input into ActivityStatus.
func ParseActivityStatus(value string) (ActivityStatus, error) {
	for _, candidate := range validActivityStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity status %q", value)
}
