package services

import (
	"encoding/json"
	"strings"

	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/utils"
	"gorm.io/gorm"
)

// NormalizeOrders is the idempotent backfill pass over the whole order
// collection. Legacy records carry the payment method under assorted
// shapes; this rewrites payment_method_name and payment_method_id to
// their canonical values wherever the resolver can determine a label,
// and only writes rows that actually change. Running it again after
// convergence mutates nothing. Returns the number of rewritten orders.
func NormalizeOrders(db *gorm.DB) (int, error) {
	var orders []models.Order
	if err := db.Find(&orders).Error; err != nil {
		return 0, err
	}

	changed := 0
	for i := range orders {
		order := &orders[i]

		label := ResolvePaymentLabel(paymentFieldsFromOrder(order))
		if label == LabelUnknown {
			continue
		}

		newID := LabelToID[label]
		if newID == "" {
			newID = order.PaymentMethodID
		}

		if label == order.PaymentMethodName && newID == order.PaymentMethodID {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Order{}).
				Where("id = ?", order.ID).
				Updates(map[string]interface{}{
					"payment_method_name": label,
					"payment_method_id":   newID,
				}).Error; err != nil {
				return err
			}

			order.PaymentMethodName = label
			order.PaymentMethodID = newID
			return EnqueueSync(tx, models.CollectionOrders, order.ID,
				models.SyncActionUpsert, order.RemoteKey, order)
		})
		if err != nil {
			return changed, err
		}
		changed++
	}

	if changed > 0 {
		utils.InfoLogger.Printf("Normalized payment fields on %d orders", changed)
	}
	return changed, nil
}

// paymentFieldsFromOrder lifts stored columns into resolver input,
// unwrapping the legacy case where the id column holds a serialized
// object instead of a short code.
func paymentFieldsFromOrder(order *models.Order) *PaymentFields {
	var idValue interface{} = order.PaymentMethodID

	trimmed := strings.TrimSpace(order.PaymentMethodID)
	if strings.HasPrefix(trimmed, "{") {
		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			idValue = obj
		}
	}

	return &PaymentFields{
		MethodName: order.PaymentMethodName,
		MethodID:   idValue,
	}
}
