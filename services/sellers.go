package services

import (
	"context"

	"github.com/mohibbulwara/orjon/logger"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/policy"
	"github.com/mohibbulwara/orjon/settlement"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type SellerProfile struct {
	models.User
	Badge        models.SellerBadge `json:"status"`
	ProductCount int                `json:"product_count"`
	AvgRating    float64            `json:"average_rating"`
}

type SellerDetail struct {
	SellerProfile
	Products []models.Product `json:"products"`
}

type SellerStats struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	PendingOrders     int     `json:"pending_orders"`
	DeliveredOrders   int64   `json:"delivered_orders"`
	AverageOrderValue float64 `json:"average_order_value"`
	PlatformFees      float64 `json:"platform_fees"`
	RemainingUploads  int     `json:"remaining_uploads"`
	SuspendsAt        int64   `json:"suspends_at"`
}

type UploadQuota struct {
	PlanType  models.Plan `json:"plan_type"`
	Used      int         `json:"used"`
	Limit     int         `json:"limit"`
	Remaining int         `json:"remaining"`
	CanUpload bool        `json:"can_upload"`
}

func (s *Service) profileOf(u models.User, products []models.Product) SellerProfile {
	p := SellerProfile{
		User:         u,
		Badge:        s.pricing.Rules.SellerBadge(&u, products, s.now()),
		ProductCount: len(products),
	}
	p.AvgRating, _ = policy.AverageRating(products)
	return p
}

// ListSellers returns active sellers with their badges. Suspended sellers
// are hidden from the storefront.
func (s *Service) ListSellers(ctx context.Context) ([]SellerProfile, error) {
	db := s.db.WithContext(ctx)
	var sellers []models.User
	if err := db.Where("role = ? AND is_suspended = ?", models.RoleSeller, false).
		Order("created_at DESC").Find(&sellers).Error; err != nil {
		return nil, errors.Wrap(err, "list sellers")
	}
	if len(sellers) == 0 {
		return []SellerProfile{}, nil
	}

	ids := make([]string, len(sellers))
	for i, u := range sellers {
		ids[i] = u.ID
	}
	var products []models.Product
	if err := db.Select("id", "seller_id", "rating").Where("seller_id IN ?", ids).Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "load seller products")
	}
	bySeller := make(map[string][]models.Product, len(sellers))
	for _, p := range products {
		bySeller[p.SellerID] = append(bySeller[p.SellerID], p)
	}

	out := make([]SellerProfile, len(sellers))
	for i, u := range sellers {
		out[i] = s.profileOf(u, bySeller[u.ID])
	}
	return out, nil
}

// GetSeller is the public shop page.
func (s *Service) GetSeller(ctx context.Context, sellerID string) (*SellerDetail, error) {
	db := s.db.WithContext(ctx)
	var u models.User
	if err := db.First(&u, "id = ? AND role = ?", sellerID, models.RoleSeller).Error; err != nil {
		return nil, lookupErr(err, "seller")
	}
	var products []models.Product
	if err := db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "load seller products")
	}
	visible := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.IsAvailable {
			visible = append(visible, p)
		}
	}
	return &SellerDetail{SellerProfile: s.profileOf(u, products), Products: visible}, nil
}

func (s *Service) UploadQuota(ctx context.Context, sellerID string) (*UploadQuota, error) {
	u, err := s.loadUser(s.db.WithContext(ctx), sellerID)
	if err != nil {
		return nil, err
	}
	rules := s.pricing.Rules
	return &UploadQuota{
		PlanType:  u.PlanType,
		Used:      u.ProductUploadCount,
		Limit:     rules.FreePlanUploadLimit,
		Remaining: rules.RemainingUploads(u),
		CanUpload: rules.CanUpload(u),
	}, nil
}

// UpgradePlan moves a seller to the pro plan.
func (s *Service) UpgradePlan(ctx context.Context, sellerID string) (*models.User, error) {
	var seller *models.User
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		u, err := s.lockUser(tx, sellerID)
		if err != nil {
			return err
		}
		if !policy.CanSell(u.Role) {
			return newError(ErrForbidden, "only sellers have plans")
		}
		if u.PlanType == models.PlanPro {
			seller = u
			return nil
		}
		if err := tx.Model(u).Update("plan_type", models.PlanPro).Error; err != nil {
			return errors.Wrap(err, "upgrade plan")
		}
		u.PlanType = models.PlanPro
		seller = u
		return nil
	})
	if err == nil {
		logger.Ctx(ctx).Info().Str("seller_id", sellerID).Msg("seller upgraded to pro")
	}
	return seller, err
}

// ActivateSeller lifts a suspension once the fee has been settled offline.
func (s *Service) ActivateSeller(ctx context.Context, actorID, sellerID string) (*models.User, error) {
	var seller *models.User
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		actor, err := s.loadUser(tx, actorID)
		if err != nil {
			return err
		}
		if !policy.CanAdminister(actor.Role) {
			return newError(ErrForbidden, "only admins can activate sellers")
		}
		u, err := s.lockUser(tx, sellerID)
		if err != nil {
			return err
		}
		if u.Role != models.RoleSeller {
			return invalid("user is not a seller")
		}
		if err := tx.Model(u).Update("is_suspended", false).Error; err != nil {
			return errors.Wrap(err, "activate seller")
		}
		u.IsSuspended = false
		seller = u
		return nil
	})
	if err == nil {
		logger.Ctx(ctx).Info().Str("seller_id", sellerID).Str("actor_id", actorID).Msg("seller re-activated")
	}
	return seller, err
}

// SellerStats backs the seller dashboard. Revenue only counts delivered
// orders, net of platform commission.
func (s *Service) SellerStats(ctx context.Context, sellerID string) (*SellerStats, error) {
	u, err := s.loadUser(s.db.WithContext(ctx), sellerID)
	if err != nil {
		return nil, err
	}
	orders, err := s.SellerOrders(ctx, sellerID, "")
	if err != nil {
		return nil, err
	}

	st := &SellerStats{
		TotalOrders:      len(orders),
		RemainingUploads: s.pricing.Rules.RemainingUploads(u),
		SuspendsAt:       s.pricing.Rules.SuspensionThreshold,
	}
	var delivered []settlement.Line
	for _, o := range orders {
		switch o.Status {
		case models.OrderStatusDelivered:
			st.DeliveredOrders++
			delivered = append(delivered, linesOf(o.Items)...)
		case models.OrderStatusPending, models.OrderStatusPreparing:
			st.PendingOrders++
		}
	}
	b := settlement.Settle(delivered)
	st.TotalRevenue = b.SellerReceives
	st.PlatformFees = b.PlatformFee
	if st.DeliveredOrders > 0 {
		st.AverageOrderValue = b.Subtotal / float64(st.DeliveredOrders)
	}
	return st, nil
}
