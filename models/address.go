package models

import "time"

// Address is a saved shipping address. At most one address per customer
// carries IsDefault; setting a new default clears the previous one.
type Address struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Line       string    `gorm:"type:varchar(255);not null" json:"address"`
	City       string    `gorm:"type:varchar(100)" json:"city"`
	State      string    `gorm:"type:varchar(100)" json:"state"`
	ZipCode    string    `gorm:"type:varchar(20)" json:"zip_code"`
	Country    string    `gorm:"type:varchar(100)" json:"country"`
	Phone      string    `gorm:"type:varchar(50)" json:"phone"`
	IsDefault  bool      `gorm:"not null;default:false" json:"is_default"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
