package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mohibbulwara/orjon/events"
	"github.com/mohibbulwara/orjon/logger"
	"github.com/mohibbulwara/orjon/metrics"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/policy"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const notifyBatchSize = 200

type ProductInput struct {
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Category             models.Category `json:"category"`
	Images               []string        `json:"images"`
	Price                float64         `json:"price"`
	OriginalPrice        *float64        `json:"original_price"`
	Tags                 []string        `json:"tags"`
	DeliveryTime         string          `json:"delivery_time"`
	CommissionPercentage int             `json:"commission_percentage"`
}

// ProductPatch only touches the fields that are set.
type ProductPatch struct {
	Name                 *string          `json:"name"`
	Description          *string          `json:"description"`
	Category             *models.Category `json:"category"`
	Images               *[]string        `json:"images"`
	Price                *float64         `json:"price"`
	OriginalPrice        *float64         `json:"original_price"`
	Tags                 *[]string        `json:"tags"`
	DeliveryTime         *string          `json:"delivery_time"`
	CommissionPercentage *int             `json:"commission_percentage"`
	IsAvailable          *bool            `json:"is_available"`
	Rating               *float64         `json:"rating"`
}

type ProductFilter struct {
	Category models.Category
	SellerID string
	Search   string
	// IncludeUnavailable is for the owner's own catalog and staff.
	IncludeUnavailable bool
	MinPrice           *float64
	MaxPrice           *float64
	SortBy             string // created_at, price or rating
	Ascending          bool
	Limit              int
	Offset             int
}

var productSortColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"rating":     "rating",
}

func (s *Service) validateProduct(in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid("product name is required")
	}
	if in.Price <= 0 {
		return invalid("price must be greater than zero")
	}
	if in.OriginalPrice != nil && *in.OriginalPrice < in.Price {
		return invalid("original price cannot be lower than the price")
	}
	if !in.Category.Valid() {
		return invalid("unknown category %q", in.Category)
	}
	if !s.pricing.Rules.CommissionAllowed(in.CommissionPercentage) {
		return invalid("commission must be one of %v percent", s.pricing.Rules.AllowedCommissions)
	}
	if len(in.Images) == 0 {
		return invalid("at least one image is required")
	}
	for _, t := range in.Tags {
		if !models.ValidTag(t) {
			return invalid("unknown tag %q", t)
		}
	}
	return nil
}

// CreateProduct adds a product for a seller. The quota check and the
// upload counter increment happen under the seller's row lock, so the
// free-plan limit holds even when requests race.
func (s *Service) CreateProduct(ctx context.Context, sellerID string, in ProductInput) (*models.Product, error) {
	ctx, span := tracer.Start(ctx, "services.CreateProduct")
	defer span.End()

	if err := s.validateProduct(&in); err != nil {
		metrics.ProductUploads.WithLabelValues("invalid").Inc()
		return nil, err
	}

	var (
		product models.Product
		seller  *models.User
	)
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var err error
		seller, err = s.lockUser(tx, sellerID)
		if err != nil {
			return err
		}
		if !policy.CanSell(seller.Role) {
			return newError(ErrForbidden, "only sellers can add products")
		}
		if seller.IsSuspended {
			return newError(ErrSellerSuspended, "your account is suspended")
		}
		if !s.pricing.Rules.CanUpload(seller) {
			return newError(ErrQuotaExceeded, "Upload limit for free plan reached.")
		}

		product = models.Product{
			ID:                   uuid.NewString(),
			SellerID:             seller.ID,
			Name:                 in.Name,
			Description:          in.Description,
			Category:             in.Category,
			Images:               in.Images,
			Price:                in.Price,
			OriginalPrice:        in.OriginalPrice,
			Tags:                 in.Tags,
			DeliveryTime:         in.DeliveryTime,
			CommissionPercentage: in.CommissionPercentage,
			IsAvailable:          true,
			CreatedAt:            s.now(),
		}
		if err := tx.Create(&product).Error; err != nil {
			return errors.Wrap(err, "create product")
		}
		return errors.Wrap(tx.Model(&models.User{}).Where("id = ?", seller.ID).
			Update("product_upload_count", gorm.Expr("product_upload_count + ?", 1)).Error, "bump upload count")
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrQuotaExceeded) {
			outcome = "quota"
		}
		metrics.ProductUploads.WithLabelValues(outcome).Inc()
		span.RecordError(err)
		return nil, err
	}
	metrics.ProductUploads.WithLabelValues("ok").Inc()
	span.SetAttributes(attribute.String("product.id", product.ID))

	s.announceProduct(ctx, seller, &product)
	return &product, nil
}

// announceProduct tells every buyer about a new product. The product is
// already committed; failures here are logged only.
func (s *Service) announceProduct(ctx context.Context, seller *models.User, p *models.Product) {
	log := logger.Ctx(ctx)
	var buyerIDs []string
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleBuyer).Pluck("id", &buyerIDs).Error; err != nil {
		log.Warn().Err(err).Str("product_id", p.ID).Msg("could not load buyers for product announcement")
		return
	}
	if len(buyerIDs) == 0 {
		return
	}

	msg := fmt.Sprintf("New product added: %s by %s", p.Name, seller.DisplayName())
	notes := make([]models.Notification, len(buyerIDs))
	for i, id := range buyerIDs {
		notes[i] = s.newNotification(id, models.NotificationNewProduct, msg)
		notes[i].ProductID = strPtr(p.ID)
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&notes, notifyBatchSize).Error; err != nil {
		log.Warn().Err(err).Str("product_id", p.ID).Msg("product announcement failed")
		return
	}
	s.publish(ctx, events.Event{Kind: events.ProductCreated, Recipients: buyerIDs, ProductID: p.ID, Data: p})
}

func (s *Service) loadEditableProduct(tx *gorm.DB, actorID, productID string) (*models.User, *models.Product, error) {
	actor, err := s.loadUser(tx, actorID)
	if err != nil {
		return nil, nil, err
	}
	var p models.Product
	if err := tx.First(&p, "id = ?", productID).Error; err != nil {
		return nil, nil, lookupErr(err, "product")
	}
	if !policy.CanEditProduct(actor, &p) {
		return nil, nil, newError(ErrForbidden, "you cannot modify this product")
	}
	return actor, &p, nil
}

// UpdateProduct applies a patch. Only staff may set the rating.
func (s *Service) UpdateProduct(ctx context.Context, actorID, productID string, patch ProductPatch) (*models.Product, error) {
	var product *models.Product
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		actor, p, err := s.loadEditableProduct(tx, actorID, productID)
		if err != nil {
			return err
		}

		in := ProductInput{
			Name: p.Name, Description: p.Description, Category: p.Category, Images: p.Images,
			Price: p.Price, OriginalPrice: p.OriginalPrice, Tags: p.Tags, DeliveryTime: p.DeliveryTime,
			CommissionPercentage: p.CommissionPercentage,
		}
		if patch.Name != nil {
			in.Name = *patch.Name
		}
		if patch.Description != nil {
			in.Description = *patch.Description
		}
		if patch.Category != nil {
			in.Category = *patch.Category
		}
		if patch.Images != nil {
			in.Images = *patch.Images
		}
		if patch.Price != nil {
			in.Price = *patch.Price
		}
		if patch.OriginalPrice != nil {
			in.OriginalPrice = patch.OriginalPrice
		}
		if patch.Tags != nil {
			in.Tags = *patch.Tags
		}
		if patch.DeliveryTime != nil {
			in.DeliveryTime = *patch.DeliveryTime
		}
		if patch.CommissionPercentage != nil {
			in.CommissionPercentage = *patch.CommissionPercentage
		}
		if err := s.validateProduct(&in); err != nil {
			return err
		}

		p.Name, p.Description, p.Category, p.Images = in.Name, in.Description, in.Category, in.Images
		p.Price, p.OriginalPrice, p.Tags, p.DeliveryTime = in.Price, in.OriginalPrice, in.Tags, in.DeliveryTime
		p.CommissionPercentage = in.CommissionPercentage
		if patch.IsAvailable != nil {
			p.IsAvailable = *patch.IsAvailable
		}
		if patch.Rating != nil {
			if !policy.CanModerate(actor.Role) {
				return newError(ErrForbidden, "only staff can set ratings")
			}
			if *patch.Rating < 0 || *patch.Rating > 5 {
				return invalid("rating must be between 0 and 5")
			}
			p.Rating = *patch.Rating
		}
		p.UpdatedAt = s.now()
		if err := tx.Save(p).Error; err != nil {
			return errors.Wrap(err, "save product")
		}
		product = p
		return nil
	})
	return product, err
}

// SetProductAvailability is the seller's in-stock toggle.
func (s *Service) SetProductAvailability(ctx context.Context, actorID, productID string, available bool) (*models.Product, error) {
	var product *models.Product
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		_, p, err := s.loadEditableProduct(tx, actorID, productID)
		if err != nil {
			return err
		}
		p.IsAvailable = available
		if err := tx.Model(p).Update("is_available", available).Error; err != nil {
			return errors.Wrap(err, "toggle availability")
		}
		product = p
		return nil
	})
	return product, err
}

// DeleteProduct removes a product. Past orders keep their snapshots, and
// the seller's upload count is not given back.
func (s *Service) DeleteProduct(ctx context.Context, actorID, productID string) error {
	return s.transaction(ctx, func(tx *gorm.DB) error {
		_, p, err := s.loadEditableProduct(tx, actorID, productID)
		if err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&models.CartItem{}).Error; err != nil {
			return errors.Wrap(err, "drop product from carts")
		}
		return errors.Wrap(tx.Delete(p).Error, "delete product")
	})
}

func (s *Service) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, "id = ?", productID).Error; err != nil {
		return nil, lookupErr(err, "product")
	}
	return &p, nil
}

func (s *Service) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if !f.IncludeUnavailable {
		q = q.Where("is_available = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.SellerID != "" {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 60
	}
	col, ok := productSortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := " DESC"
	if f.Ascending {
		dir = " ASC"
	}
	var products []models.Product
	err := q.Order(col + dir).Order("id").Limit(f.Limit).Offset(f.Offset).Find(&products).Error
	return products, errors.Wrap(err, "list products")
}
