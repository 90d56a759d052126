package models

import "time"

// OrderItem is a value snapshot of a cart line at checkout. It is never
// linked back to the catalog row it came from.
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	MenuItemID *uint     `json:"menu_item_id,omitempty"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Price      float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	Category   string    `gorm:"type:varchar(50)" json:"category"`
	ImageURL   string    `gorm:"type:varchar(255)" json:"image"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}
