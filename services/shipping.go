package services

import (
	"strings"

	"github.com/dimsumluna/ordering-backend/models"
)

// DefaultShippingFee applies when no table entry matches the address.
const DefaultShippingFee = 30.00

// serviceableRegionToken gates checkout: addresses whose normalized
// form does not contain it are rejected outright, not defaulted.
const serviceableRegionToken = "batangas"

// shippingTable is scanned in order; the first entry with any matching
// token wins, so specific tokens must precede generic ones. Treat as
// data, not geography.
var shippingTable = []struct {
	tokens []string
	fee    float64
}{
	{[]string{"lipa city", "lipa"}, 100.00},
	{[]string{"san jose"}, 50.00},
	{[]string{"tanauan"}, 80.00},
	{[]string{"batangas city"}, 60.00},
}

// normalizeAddress lowercases, strips punctuation and collapses
// whitespace so token matching is layout-insensitive.
func normalizeAddress(addr *models.Address) string {
	if addr == nil {
		return ""
	}
	joined := strings.ToLower(strings.Join([]string{
		addr.Line, addr.City, addr.State, addr.ZipCode, addr.Country,
	}, " "))

	var b strings.Builder
	for _, r := range joined {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// ShippingFee maps an address to its delivery fee. A nil address or an
// address matching no table entry gets the default fee.
func ShippingFee(addr *models.Address) float64 {
	if addr == nil {
		return DefaultShippingFee
	}

	norm := normalizeAddress(addr)
	for _, entry := range shippingTable {
		for _, token := range entry.tokens {
			if strings.Contains(norm, token) {
				return entry.fee
			}
		}
	}
	return DefaultShippingFee
}

// Serviceable reports whether the address lies inside the delivery
// region. This check runs before any checkout mutation.
func Serviceable(addr *models.Address) bool {
	if addr == nil {
		return false
	}
	return strings.Contains(normalizeAddress(addr), serviceableRegionToken)
}
