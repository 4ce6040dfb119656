package enums

import "fmt"

// Wallet names a ledger partition activities are credited or debited against.
type Wallet string

const (
	WalletCompany    Wallet = "company"
	WalletMemberCash Wallet = "member_cash"
	WalletPointValue Wallet = "point_value"
)

var validWallets = []Wallet{
	WalletCompany,
	WalletMemberCash,
	WalletPointValue,
}

// IsValid reports whether the value matches the canonical wallet enum.
func (w Wallet) IsValid() bool {
	for _, candidate := range validWallets {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWallet converts raw input into Wallet.
func ParseWallet(value string) (Wallet, error) {
	for _, candidate := range validWallets {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid wallet %q", value)
}
