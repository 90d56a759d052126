package services

import (
	"encoding/json"
	"time"

	"github.com/dimsumluna/ordering-backend/models"
	"gorm.io/gorm"
)

// EnqueueSync records a pending remote-mirror mutation. Call it inside
// the same transaction as the local write so the mirror entry and the
// record commit or roll back together.
func EnqueueSync(tx *gorm.DB, collection string, recordID uint, action string, remoteKey string, payload interface{}) error {
	data := ""
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data = string(b)
	}

	return tx.Create(&models.SyncOutbox{
		Collection:    collection,
		RecordID:      recordID,
		Action:        action,
		RemoteKey:     remoteKey,
		Payload:       data,
		NextAttemptAt: time.Now(),
	}).Error
}
