package models

import "time"

// PurchaseRecord is written once, by the confirm-receipt transition,
// and never mutated afterwards. The source order is retained.
type PurchaseRecord struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	OrderID           uint      `gorm:"not null;index" json:"order_id"`
	CustomerID        uint      `gorm:"not null;index" json:"customer_id"`
	Date              time.Time `gorm:"not null" json:"date"`
	OriginalOrderDate time.Time `gorm:"not null" json:"original_order_date"`
	Total             float64   `gorm:"type:decimal(10,2);not null" json:"total"`
	PaymentMethodID   string    `gorm:"type:varchar(50)" json:"payment_method_id"`
	PaymentMethodName string    `gorm:"type:varchar(50)" json:"payment_method_name"`
	AddressSnapshot   string    `gorm:"type:text" json:"address_snapshot"`

	Items []PurchaseItem `gorm:"foreignKey:PurchaseRecordID" json:"items"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

type PurchaseItem struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	PurchaseRecordID uint    `gorm:"not null;index" json:"purchase_record_id"`
	Name             string  `gorm:"type:varchar(255);not null" json:"name"`
	Price            float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity         int     `gorm:"not null" json:"quantity"`
}
