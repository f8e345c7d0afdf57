package models

import "time"

type Category string

const (
	CategoryBurger  Category = "Burger"
	CategoryPizza   Category = "Pizza"
	CategoryDrinks  Category = "Drinks"
	CategoryDessert Category = "Dessert"
	CategoryBiryani Category = "Biryani"
	CategoryKebab   Category = "Kebab"
	CategorySetMenu Category = "Set Menu"
	CategoryPasta   Category = "Pasta"
	CategorySoup    Category = "Soup"
	CategorySalad   Category = "Salad"
)

var Categories = []Category{
	CategoryBurger, CategoryPizza, CategoryDrinks, CategoryDessert, CategoryBiryani,
	CategoryKebab, CategorySetMenu, CategoryPasta, CategorySoup, CategorySalad,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

const (
	TagBestValue = "Best Value"
	TagSpicy     = "Spicy"
	TagNew       = "New"
)

func ValidTag(t string) bool {
	return t == TagBestValue || t == TagSpicy || t == TagNew
}

type Product struct {
	ID                   string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	SellerID             string    `gorm:"index;not null" json:"seller_id"`
	Name                 string    `gorm:"not null" json:"name"`
	Description          string    `json:"description"`
	Category             Category  `gorm:"type:varchar(32);index" json:"category"`
	Images               []string  `gorm:"serializer:json" json:"images"`
	Price                float64   `gorm:"not null" json:"price"`
	OriginalPrice        *float64  `json:"original_price,omitempty"`
	Tags                 []string  `gorm:"serializer:json" json:"tags,omitempty"`
	DeliveryTime         string    `json:"delivery_time"`
	CommissionPercentage int       `gorm:"not null;default:5" json:"commission_percentage"`
	Rating               float64   `json:"rating"`
	IsAvailable          bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
