package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPreparing OrderStatus = "Preparing"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus is case-insensitive.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return OrderStatusPending, nil
	case "preparing":
		return OrderStatusPreparing, nil
	case "delivered":
		return OrderStatusDelivered, nil
	case "cancelled", "canceled":
		return OrderStatusCancelled, nil
	default:
		return "", fmt.Errorf("invalid order status %q", s)
	}
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusPreparing || next == OrderStatusCancelled
	case OrderStatusPreparing:
		return next == OrderStatusDelivered || next == OrderStatusCancelled
	default:
		return false
	}
}

type Order struct {
	ID             string       `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BuyerID        string       `gorm:"index;not null" json:"buyer_id"`
	SellerIDs      []string     `gorm:"-" json:"seller_ids"`
	Items          []OrderItem  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Total          float64      `json:"total"`
	Status         OrderStatus  `gorm:"type:varchar(16);not null;default:'Pending';index" json:"status"`
	Address        string       `json:"address"`
	Contact        string       `json:"contact"`
	DeliveryZone   DeliveryZone `gorm:"type:varchar(32)" json:"delivery_zone"`
	ShippingCost   float64      `json:"shipping_cost"`
	PlatformFee    float64      `json:"platform_fee"`
	SellerReceives float64      `json:"seller_receives"`
	CreatedAt      time.Time    `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

type OrderItem struct {
	ID                   uint     `gorm:"primaryKey" json:"-"`
	OrderID              string   `gorm:"index;type:varchar(64)" json:"-"`
	ProductID            string   `json:"product_id"`
	SellerID             string   `gorm:"index" json:"seller_id"`
	Name                 string   `json:"name"`
	Images               []string `gorm:"serializer:json" json:"images"`
	Category             Category `gorm:"type:varchar(32)" json:"category"`
	Price                float64  `json:"price"`
	Quantity             int      `json:"quantity"`
	CommissionPercentage int      `json:"commission_percentage"`
}

// ShortID is the six character reference shown to users.
func (o *Order) ShortID() string {
	if len(o.ID) <= 6 {
		return o.ID
	}
	return o.ID[:6]
}

// DeriveSellerIDs fills SellerIDs from the items, first appearance first.
func (o *Order) DeriveSellerIDs() {
	seen := make(map[string]bool, len(o.Items))
	ids := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		if it.SellerID == "" || seen[it.SellerID] {
			continue
		}
		seen[it.SellerID] = true
		ids = append(ids, it.SellerID)
	}
	o.SellerIDs = ids
}

func (o *Order) HasSeller(sellerID string) bool {
	for _, it := range o.Items {
		if it.SellerID == sellerID {
			return true
		}
	}
	return false
}

func (o *Order) AfterFind(tx *gorm.DB) error {
	o.DeriveSellerIDs()
	return nil
}
