package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/dimsumluna/ordering-backend/models"
	"gorm.io/gorm"
)

// SyncMonitor drains the sync outbox into the remote mirror. It polls
// on a ticker, takes due rows oldest-first in batches, and reconciles
// push-keys back onto the local records. A failed row is rescheduled
// with doubling backoff; nothing here ever blocks a caller.
type SyncMonitor struct {
	DB       *gorm.DB
	Store    RemoteStore
	StopChan chan struct{}
	Interval time.Duration
}

const (
	syncBatchSize  = 100
	syncBackoffMin = 5 * time.Second
	syncBackoffMax = 5 * time.Minute
	syncCallBudget = 10 * time.Second
)

func NewSyncMonitor(db *gorm.DB, store RemoteStore) *SyncMonitor {
	return &SyncMonitor{
		DB:       db,
		Store:    store,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (sm *SyncMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.Drain()
			case <-sm.StopChan:
				return
			}
		}
	}()
}

func (sm *SyncMonitor) Stop() {
	close(sm.StopChan)
}

// Drain processes one batch of due outbox rows. Exported so startup
// and tests can run a pass synchronously.
func (sm *SyncMonitor) Drain() {
	var entries []models.SyncOutbox

	if err := sm.DB.
		Where("processed = ? AND next_attempt_at <= ?", false, time.Now()).
		Order("created_at ASC").
		Limit(syncBatchSize).
		Find(&entries).Error; err != nil {
		log.Printf("Error fetching outbox entries: %v", err)
		return
	}

	for i := range entries {
		sm.process(&entries[i])
	}
}

func (sm *SyncMonitor) process(entry *models.SyncOutbox) {
	ctx, cancel := context.WithTimeout(context.Background(), syncCallBudget)
	defer cancel()

	var err error
	switch entry.Action {
	case models.SyncActionDelete:
		err = sm.processDelete(ctx, entry)
	default:
		err = sm.processUpsert(ctx, entry)
	}

	if err != nil {
		sm.reschedule(entry, err)
		return
	}

	if err := sm.DB.Model(&models.SyncOutbox{}).
		Where("id = ?", entry.ID).
		Update("processed", true).Error; err != nil {
		log.Printf("Error marking outbox entry %d processed: %v", entry.ID, err)
	}
}

func (sm *SyncMonitor) processDelete(ctx context.Context, entry *models.SyncOutbox) error {
	// Without a remote key there is nothing addressable to delete.
	if entry.RemoteKey == "" {
		return nil
	}
	return sm.Store.Delete(ctx, entry.Collection, entry.RemoteKey)
}

func (sm *SyncMonitor) processUpsert(ctx context.Context, entry *models.SyncOutbox) error {
	var payload interface{}
	if entry.Payload != "" {
		if err := json.Unmarshal([]byte(entry.Payload), &payload); err != nil {
			// A payload that cannot be decoded will never succeed;
			// drop it rather than retry forever.
			log.Printf("Dropping outbox entry %d with bad payload: %v", entry.ID, err)
			return nil
		}
	}

	// Tombstones are append-only; no key reconciliation.
	if entry.Collection == models.CollectionDeletedMenuItems {
		_, err := sm.Store.Push(ctx, entry.Collection, payload)
		return err
	}

	key, exists, err := sm.localRemoteKey(entry.Collection, entry.RecordID)
	if err != nil {
		return err
	}
	if !exists {
		// Record deleted locally before the mirror caught up.
		return nil
	}
	if key == "" {
		key = entry.RemoteKey
	}

	if key != "" {
		return sm.Store.Set(ctx, entry.Collection, key, payload)
	}

	newKey, err := sm.Store.Push(ctx, entry.Collection, payload)
	if err != nil {
		return err
	}
	if newKey == "" {
		return nil
	}

	// Attach the push-key to the local record so later updates target
	// the same remote path. If this write fails the record stays
	// valid; it will simply push again next time.
	if err := sm.setLocalRemoteKey(entry.Collection, entry.RecordID, newKey); err != nil {
		log.Printf("Error reconciling remote key for %s/%d: %v",
			entry.Collection, entry.RecordID, err)
	}
	return nil
}

func (sm *SyncMonitor) localRemoteKey(collection string, recordID uint) (string, bool, error) {
	var key string
	var result *gorm.DB

	switch collection {
	case models.CollectionOrders:
		result = sm.DB.Model(&models.Order{}).Where("id = ?", recordID).Pluck("remote_key", &key)
	case models.CollectionMenuItems:
		result = sm.DB.Model(&models.MenuItem{}).Where("id = ?", recordID).Pluck("remote_key", &key)
	case models.CollectionUsers:
		result = sm.DB.Model(&models.Customer{}).Where("id = ?", recordID).Pluck("remote_key", &key)
	default:
		return "", false, nil
	}

	if result.Error != nil {
		return "", false, result.Error
	}
	if result.RowsAffected == 0 {
		return "", false, nil
	}
	return key, true, nil
}

func (sm *SyncMonitor) setLocalRemoteKey(collection string, recordID uint, key string) error {
	switch collection {
	case models.CollectionOrders:
		return sm.DB.Model(&models.Order{}).Where("id = ?", recordID).
			Update("remote_key", key).Error
	case models.CollectionMenuItems:
		return sm.DB.Model(&models.MenuItem{}).Where("id = ?", recordID).
			Update("remote_key", key).Error
	case models.CollectionUsers:
		return sm.DB.Model(&models.Customer{}).Where("id = ?", recordID).
			Update("remote_key", key).Error
	}
	return nil
}

func (sm *SyncMonitor) reschedule(entry *models.SyncOutbox, cause error) {
	attempts := entry.Attempts + 1

	backoff := syncBackoffMin
	for i := 1; i < attempts && backoff < syncBackoffMax; i++ {
		backoff *= 2
	}
	if backoff > syncBackoffMax {
		backoff = syncBackoffMax
	}

	log.Printf("Sync of %s/%d failed (attempt %d, retry in %s): %v",
		entry.Collection, entry.RecordID, attempts, backoff, cause)

	if err := sm.DB.Model(&models.SyncOutbox{}).
		Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"attempts":        attempts,
			"next_attempt_at": time.Now().Add(backoff),
		}).Error; err != nil {
		log.Printf("Error rescheduling outbox entry %d: %v", entry.ID, err)
	}
}
