package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatCurrencyPHP formats a float64 value as a Philippine peso string.
// Example: 15000.50 -> "PHP 15,000.50"
func FormatCurrencyPHP(amount float64) string {
	formatted := fmt.Sprintf("%.2f", amount)

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	var result []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		result = append([]string{integerPart[start:i]}, result...)
	}

	return "PHP " + strings.Join(result, ",") + "." + decimalPart
}

// ParseAmount parses a price that may arrive as a formatted string
// ("PHP 1,250.00", "₱85") by stripping everything that is not part of a
// number. Unparseable input yields 0.
func ParseAmount(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	value, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return value
}

// Round2 rounds a monetary amount to two decimal places.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}
