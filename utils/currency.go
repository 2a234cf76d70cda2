package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrencyIDR formats an amount as Indonesian Rupiah.
// Example: 15000.50 -> "Rp 15.000,50", 25000 -> "Rp 25.000"
func FormatCurrencyIDR(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	// Bulatkan ke 2 digit desimal lalu pisahkan bagian integer dan desimal
	fixed := amount.Round(2).StringFixed(2)
	integerPart, decimalPart, _ := strings.Cut(fixed, ".")

	// Tambahkan pemisah ribuan
	var b strings.Builder
	for i, r := range integerPart {
		if i > 0 && (len(integerPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	if decimalPart == "00" {
		return "Rp " + sign + b.String()
	}
	return "Rp " + sign + b.String() + "," + decimalPart
}
