package models

import "time"

// Outbox actions.
const (
	SyncActionUpsert = "upsert"
	SyncActionDelete = "delete"
)

// Remote collections mirrored by the sync monitor.
const (
	CollectionOrders           = "orders"
	CollectionMenuItems        = "menuItems"
	CollectionUsers            = "users"
	CollectionDeletedMenuItems = "deletedMenuItems"
)

// SyncOutbox is one pending remote-mirror mutation. Rows are written in
// the same transaction as the local change and drained by the sync
// monitor; failures reschedule with backoff and never affect the local
// write.
type SyncOutbox struct {
	ID            uint      `gorm:"primaryKey"`
	Collection    string    `gorm:"type:varchar(50);not null;index:idx_outbox_pending"`
	RecordID      uint      `gorm:"not null"`
	Action        string    `gorm:"type:varchar(10);not null"`
	RemoteKey     string    `gorm:"type:varchar(255)"`
	Payload       string    `gorm:"type:text"`
	Attempts      int       `gorm:"not null;default:0"`
	NextAttemptAt time.Time `gorm:"not null;index"`
	Processed     bool      `gorm:"not null;default:false;index:idx_outbox_pending"`
	CreatedAt     time.Time `gorm:"not null"`
}
