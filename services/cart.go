package services

import (
	"context"

	"github.com/mohibbulwara/orjon/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const maxLineQuantity = 99

func cartFor(tx *gorm.DB, userID string) (*models.Cart, error) {
	cart := models.Cart{UserID: userID}
	if err := tx.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		return nil, errors.Wrap(err, "load cart")
	}
	return &cart, nil
}

// GetCart returns the cart with live product data on each line.
func (s *Service) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	db := s.db.WithContext(ctx)
	cart, err := cartFor(db, userID)
	if err != nil {
		return nil, err
	}
	err = db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		First(cart, "cart_id = ?", cart.CartID).Error
	return cart, errors.Wrap(err, "load cart items")
}

// SetCartItem sets the quantity of a product in the cart; zero or less
// removes it.
// A new line goes to the end, so the first line keeps deciding shipping.
func (s *Service) SetCartItem(ctx context.Context, userID, productID string, qty int) (*models.Cart, error) {
	if qty > maxLineQuantity {
		return nil, invalid("quantity cannot exceed %d", maxLineQuantity)
	}
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		cart, err := cartFor(tx, userID)
		if err != nil {
			return err
		}
		if qty <= 0 {
			return errors.Wrap(tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
				Delete(&models.CartItem{}).Error, "remove cart item")
		}

		var p models.Product
		if err := tx.First(&p, "id = ?", productID).Error; err != nil {
			return lookupErr(err, "product")
		}
		if !p.IsAvailable {
			return invalid("%s is currently unavailable", p.Name)
		}
		if p.SellerID == userID {
			return invalid("you cannot order your own product")
		}

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.CartItem{CartID: cart.CartID, ProductID: productID, Quantity: qty, AddedAt: s.now()}
			return errors.Wrap(tx.Create(&item).Error, "add cart item")
		case err != nil:
			return errors.Wrap(err, "load cart item")
		}
		return errors.Wrap(tx.Model(&item).Update("quantity", qty).Error, "update cart item")
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *Service) ClearCart(ctx context.Context, userID string) error {
	db := s.db.WithContext(ctx)
	cart, err := cartFor(db, userID)
	if err != nil {
		return err
	}
	return errors.Wrap(db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error, "clear cart")
}
