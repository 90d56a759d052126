package models

import "time"

// Order statuses. Orders start in Processing; staff may move them
// between the four active statuses freely. Cancelled is terminal.
const (
	StatusProcessing = "Processing"
	StatusPreparing  = "Preparing"
	StatusShipping   = "Shipping"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

// AdminSettableStatuses is the exact option set staff may pick from.
var AdminSettableStatuses = []string{
	StatusProcessing,
	StatusPreparing,
	StatusShipping,
	StatusDelivered,
}

type Order struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CustomerID uint   `gorm:"not null;index" json:"customer_id"`
	// Owner identity snapshot. Never reassigned after creation.
	CustomerEmail string `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerName  string `gorm:"type:varchar(255)" json:"customer_name"`

	Status          string     `gorm:"type:varchar(20);not null;default:'Processing'" json:"status"`
	StatusUpdatedAt *time.Time `json:"status_updated_at,omitempty"`

	// Monetary fields are fixed at checkout. Total is the amount
	// charged and is never recomputed from items afterwards.
	Subtotal    float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	ShippingFee float64 `gorm:"type:decimal(10,2);not null" json:"shipping_fee"`
	Total       float64 `gorm:"type:decimal(10,2);not null" json:"total"`

	PaymentMethodID   string `gorm:"type:varchar(50)" json:"payment_method_id"`
	PaymentMethodName string `gorm:"type:varchar(50)" json:"payment_method_name"`

	// AddressSnapshot is the shipping address serialized at checkout,
	// not a live reference.
	AddressSnapshot string `gorm:"type:text" json:"address_snapshot"`

	ConfirmedReceived bool       `gorm:"not null;default:false" json:"confirmed_received"`
	ConfirmedDate     *time.Time `json:"confirmed_date,omitempty"`

	CancelledByCustomer bool       `gorm:"not null;default:false" json:"cancelled_by_customer"`
	CancelledByStaff    bool       `gorm:"not null;default:false" json:"cancelled_by_staff"`
	CancelledBy         string     `gorm:"type:varchar(255)" json:"cancelled_by,omitempty"`
	CancelledDate       *time.Time `json:"cancelled_date,omitempty"`

	RemoteKey string `gorm:"type:varchar(255)" json:"firebase_key,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Active reports whether the order still moves through the lifecycle.
func (o *Order) Active() bool {
	return o.Status != StatusCancelled && !(o.Status == StatusDelivered && o.ConfirmedReceived)
}
