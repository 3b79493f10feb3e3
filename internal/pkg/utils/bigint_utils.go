package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ToUnits converts a smallest-unit integer amount to a decimal in whole
// units. Example: 1234500000000000000 wei with 18 decimals => 1.2345.
func ToUnits(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// FormatUnits renders a smallest-unit amount as a human-readable string with
// trailing zeros trimmed. Example: amount=1234500000000000000, decimals=18
// => "1.2345".
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}
	formatted := ToUnits(amount, decimals).StringFixed(int32(decimals))
	if strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
	}
	if formatted == "" || formatted == "-" {
		return "0"
	}
	return formatted
}

// ParseHexQuantity decodes a JSON-RPC hex quantity into a big integer. It is
// deliberately lenient about zero padding: eth_getBalance returns canonical
// quantities ("0x1b4") but token-balance extension methods return 32-byte
// padded words.
func ParseHexQuantity(quantity string) (*big.Int, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(quantity), "0x")
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return nil, fmt.Errorf("failed to parse hex quantity %q", quantity)
	}
	return value, nil
}
