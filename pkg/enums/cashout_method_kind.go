package enums

import "fmt"

// CashoutMethodKind maps to the cashout_method_kind_enum enum in Postgres.
type CashoutMethodKind string

const (
	CashoutMethodKindBankTransfer CashoutMethodKind = "bank_transfer"
	CashoutMethodKindPaypal       CashoutMethodKind = "paypal"
	CashoutMethodKindStoreCredit  CashoutMethodKind = "store_credit"
)

var validCashoutMethodKinds = []CashoutMethodKind{
	CashoutMethodKindBankTransfer,
	CashoutMethodKindPaypal,
	CashoutMethodKindStoreCredit,
}

// IsValid reports whether the value matches the canonical cashout method enum.
func (k CashoutMethodKind) IsValid() bool {
	for _, candidate := range validCashoutMethodKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseCashoutMethodKind converts raw input into CashoutMethodKind.
func ParseCashoutMethodKind(value string) (CashoutMethodKind, error) {
	for _, candidate := range validCashoutMethodKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cashout method kind %q", value)
}
