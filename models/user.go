package models

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleBuyer     Role = "buyer"
	RoleSeller    Role = "seller"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// ParseRole accepts only the four known roles.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleBuyer:
		return RoleBuyer, nil
	case RoleSeller:
		return RoleSeller, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleModerator:
		return RoleModerator, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

type DeliveryZone string

const (
	ZoneInsideRangpurCity DeliveryZone = "inside-rangpur-city"
	ZoneRangpurDivision   DeliveryZone = "rangpur-division"
	ZoneOutsideRangpur    DeliveryZone = "outside-rangpur"
)

// Zones lists every zone in table order.
var Zones = []DeliveryZone{ZoneInsideRangpurCity, ZoneRangpurDivision, ZoneOutsideRangpur}

func (z DeliveryZone) Valid() bool {
	for _, known := range Zones {
		if z == known {
			return true
		}
	}
	return false
}

type SellerBadge string

const (
	BadgeNone             SellerBadge = ""
	BadgeTopSeller        SellerBadge = "Top Seller"
	BadgeRisingStar       SellerBadge = "Rising Star"
	BadgeCustomerFavorite SellerBadge = "Customer Favorite"
)

type User struct {
	ID                 string       `gorm:"primaryKey;type:varchar(128)" json:"id"`
	Name               string       `json:"name"`
	Email              string       `gorm:"uniqueIndex;not null" json:"email"`
	Phone              string       `json:"phone,omitempty"`
	Role               Role         `gorm:"type:varchar(16);not null;default:'buyer';index" json:"role"`
	Avatar             string       `json:"avatar"`
	ShopName           string       `json:"shop_name,omitempty"`
	ShopAddress        string       `json:"shop_address,omitempty"`
	Zone               DeliveryZone `gorm:"type:varchar(32)" json:"zone,omitempty"`
	PlanType           Plan         `gorm:"type:varchar(8);not null;default:'free'" json:"plan_type,omitempty"`
	ProductUploadCount int          `gorm:"not null;default:0" json:"product_upload_count"`
	IsSuspended        bool         `gorm:"not null;default:false" json:"is_suspended"`
	Cart               Cart         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// DisplayName prefers the shop name for sellers.
func (u *User) DisplayName() string {
	if u.ShopName != "" {
		return u.ShopName
	}
	return u.Name
}

func (u *User) IsSeller() bool { return u.Role == RoleSeller }
