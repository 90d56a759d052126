package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrencyPHP(t *testing.T) {
	assert.Equal(t, "PHP 85.00", FormatCurrencyPHP(85))
	assert.Equal(t, "PHP 1,250.50", FormatCurrencyPHP(1250.5))
	assert.Equal(t, "PHP 15,000,000.00", FormatCurrencyPHP(15000000))
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 1250.00, ParseAmount("PHP 1,250.00"))
	assert.Equal(t, 85.0, ParseAmount("₱85"))
	assert.Equal(t, 0.0, ParseAmount("free"))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 200.0, Round2(199.999999))
	assert.Equal(t, 169.99, Round2(169.994))
}
