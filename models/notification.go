package models

import "time"

type NotificationType string

const (
	NotificationNewOrder    NotificationType = "new-order"
	NotificationOrderStatus NotificationType = "order-status"
	NotificationNewProduct  NotificationType = "new-product"
)

type Notification struct {
	ID        string           `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID    string           `gorm:"index;not null" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(16);not null" json:"type"`
	Message   string           `gorm:"not null" json:"message"`
	IsRead    bool             `gorm:"not null;default:false" json:"is_read"`
	OrderID   *string          `json:"order_id,omitempty"`
	ProductID *string          `json:"product_id,omitempty"`
	CreatedAt time.Time        `gorm:"index" json:"created_at"`
}

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Product{},
		&Cart{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Notification{},
	}
}
