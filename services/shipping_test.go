package services

import (
	"testing"

	"github.com/dimsumluna/ordering-backend/models"
	"github.com/stretchr/testify/assert"
)

func TestShippingFeeLookup(t *testing.T) {
	lipa := &models.Address{City: "Lipa City", State: "Batangas"}
	assert.Equal(t, 100.00, ShippingFee(lipa))

	// No table token -> default fee.
	santoTomas := &models.Address{City: "Santo Tomas", State: "Batangas"}
	assert.Equal(t, DefaultShippingFee, ShippingFee(santoTomas))

	assert.Equal(t, DefaultShippingFee, ShippingFee(nil))
}

func TestShippingFeeMatchOrder(t *testing.T) {
	// "Lipa" must win over later entries even when other tokens also
	// appear in the normalized address.
	addr := &models.Address{Line: "San Jose Road", City: "Lipa City", State: "Batangas"}
	assert.Equal(t, 100.00, ShippingFee(addr))
}

func TestShippingFeeIgnoresPunctuation(t *testing.T) {
	addr := &models.Address{Line: "#12, LIPA-CITY,", State: "BATANGAS"}
	assert.Equal(t, 100.00, ShippingFee(addr))
}

func TestServiceable(t *testing.T) {
	assert.True(t, Serviceable(&models.Address{City: "Lipa City", State: "Batangas"}))
	assert.True(t, Serviceable(&models.Address{Line: "88 Rizal St", City: "Batangas City"}))

	assert.False(t, Serviceable(&models.Address{City: "Manila", State: "Metro Manila"}))
	assert.False(t, Serviceable(nil))
}
