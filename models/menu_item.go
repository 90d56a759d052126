package models

import "time"

// Canonical menu categories. Anything else lands in the
// "Uncategorized" analytics bucket.
const (
	CategorySteamed = "Steamed Dishes"
	CategoryFried   = "Fried Dishes"
	CategoryBaked   = "Baked Dishes"
	CategoryNoodles = "Noodles"
	CategorySpecial = "Special Dishes"
	CategoryDessert = "Dessert"
)

var CanonicalCategories = []string{
	CategorySteamed,
	CategoryFried,
	CategoryBaked,
	CategoryNoodles,
	CategorySpecial,
	CategoryDessert,
}

type MenuItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Category  string    `gorm:"type:varchar(50);not null" json:"category"`
	ImageURL  string    `gorm:"type:varchar(255)" json:"image"`
	Available bool      `gorm:"not null;default:true" json:"available"`
	// Deleted marks a tombstoned item whose remote copy could not be
	// addressed by key at deletion time.
	Deleted   bool      `gorm:"not null;default:false;index" json:"-"`
	RemoteKey string    `gorm:"type:varchar(255)" json:"firebase_key,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
