package services

import (
	"fmt"
	"testing"

	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/utils"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupNormalizerDB(t *testing.T) *gorm.DB {
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.SyncOutbox{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestNormalizeOrdersBackfill(t *testing.T) {
	db := setupNormalizerDB(t)

	legacy := models.Order{
		CustomerID:        1,
		CustomerEmail:     "anna@example.com",
		Status:            models.StatusProcessing,
		Subtotal:          170,
		ShippingFee:       30,
		Total:             200,
		PaymentMethodID:   "GCASH!!",
		PaymentMethodName: "",
	}
	db.Create(&legacy)

	// Legacy shape: the id column holds a serialized object.
	objectShaped := models.Order{
		CustomerID:        1,
		CustomerEmail:     "anna@example.com",
		Status:            models.StatusDelivered,
		Subtotal:          100,
		ShippingFee:       30,
		Total:             130,
		PaymentMethodID:   `{"id":"paymaya"}`,
		PaymentMethodName: "",
	}
	db.Create(&objectShaped)

	clean := models.Order{
		CustomerID:        2,
		CustomerEmail:     "ben@example.com",
		Status:            models.StatusProcessing,
		Subtotal:          50,
		ShippingFee:       30,
		Total:             80,
		PaymentMethodID:   "paypal",
		PaymentMethodName: "PayPal",
	}
	db.Create(&clean)

	changed, err := NormalizeOrders(db)
	assert.NoError(t, err)
	assert.Equal(t, 2, changed)

	var got models.Order
	db.First(&got, legacy.ID)
	assert.Equal(t, "GCash", got.PaymentMethodName)
	assert.Equal(t, "gcash", got.PaymentMethodID)

	got = models.Order{}
	db.First(&got, objectShaped.ID)
	assert.Equal(t, "Maya", got.PaymentMethodName)
	assert.Equal(t, "maya", got.PaymentMethodID)

	// Untouched order stays untouched.
	got = models.Order{}
	db.First(&got, clean.ID)
	assert.Equal(t, "PayPal", got.PaymentMethodName)
	assert.Equal(t, "paypal", got.PaymentMethodID)

	// Rewrites are mirrored through the outbox.
	var outboxCount int64
	db.Model(&models.SyncOutbox{}).Where("collection = ?", models.CollectionOrders).Count(&outboxCount)
	assert.Equal(t, int64(2), outboxCount)
}

func TestNormalizeOrdersIdempotent(t *testing.T) {
	db := setupNormalizerDB(t)

	db.Create(&models.Order{
		CustomerID:      1,
		CustomerEmail:   "anna@example.com",
		Status:          models.StatusProcessing,
		Total:           200,
		PaymentMethodID: "GCASH!!",
	})

	first, err := NormalizeOrders(db)
	assert.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := NormalizeOrders(db)
	assert.NoError(t, err)
	assert.Equal(t, 0, second)
}

func TestNormalizeOrdersLeavesUnknownAlone(t *testing.T) {
	db := setupNormalizerDB(t)

	db.Create(&models.Order{
		CustomerID:      1,
		CustomerEmail:   "anna@example.com",
		Status:          models.StatusProcessing,
		Total:           80,
		PaymentMethodID: "bank-transfer",
	})

	changed, err := NormalizeOrders(db)
	assert.NoError(t, err)
	assert.Equal(t, 0, changed)

	var got models.Order
	db.First(&got)
	assert.Equal(t, "bank-transfer", got.PaymentMethodID)
	assert.Equal(t, "", got.PaymentMethodName)
}
