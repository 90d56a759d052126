package models

import "time"

// CartItem is a single cart line. Lines are merged by menu item (or by
// name for catalog-less entries) instead of duplicated.
type CartItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	MenuItemID *uint     `gorm:"index" json:"menu_item_id,omitempty"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Price      float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	Category   string    `gorm:"type:varchar(50)" json:"category"`
	ImageURL   string    `gorm:"type:varchar(255)" json:"image"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
