package enums

import "fmt"

// OrderStatus maps to the order_status_enum enum in Postgres.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusPlaced    OrderStatus = "placed"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusDraft,
	OrderStatusPlaced,
	OrderStatusPaid,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// IsValid reports whether the value matches the canonical order status enum.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

// OrderStage groups statuses for reporting and UI badges.
type OrderStage string

const (
	OrderStageOpen     OrderStage = "open"
	OrderStageSettling OrderStage = "settling"
	OrderStageClosed   OrderStage = "closed"
)

// Stage maps every order status to its lifecycle stage. The switch is
// exhaustive over validOrderStatuses.
func (s OrderStatus) Stage() OrderStage {
	switch s {
	case OrderStatusDraft, OrderStatusPlaced:
		return OrderStageOpen
	case OrderStatusPaid:
		return OrderStageSettling
	case OrderStatusCompleted, OrderStatusCancelled:
		return OrderStageClosed
	default:
		return OrderStageOpen
	}
}

// IsTerminal reports whether the status permits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}
