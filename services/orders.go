package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mohibbulwara/orjon/events"
	"github.com/mohibbulwara/orjon/logger"
	"github.com/mohibbulwara/orjon/metrics"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/policy"
	"github.com/mohibbulwara/orjon/settlement"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const suspensionMessage = "Your account has been suspended after reaching 100 delivered orders. Please pay the monthly fee of 500 taka to re-activate."

type CheckoutRequest struct {
	Address      string              `json:"address"`
	Contact      string              `json:"contact"`
	DeliveryZone models.DeliveryZone `json:"delivery_zone"`
}

func (r *CheckoutRequest) validate() error {
	r.Address = strings.TrimSpace(r.Address)
	r.Contact = strings.TrimSpace(r.Contact)
	switch {
	case r.Address == "":
		return invalid("delivery address is required")
	case r.Contact == "":
		return invalid("contact number is required")
	case !r.DeliveryZone.Valid():
		return invalid("a valid delivery zone is required")
	}
	return nil
}

// SellerOrder is an order as one seller sees it: their own lines and
// what they are owed for them.
type SellerOrder struct {
	models.Order
	Settlement settlement.Breakdown `json:"settlement"`
}

// -------- Helpers --------

func linesOf(items []models.OrderItem) []settlement.Line {
	lines := make([]settlement.Line, len(items))
	for i, it := range items {
		lines[i] = settlement.Line{
			SellerID:   it.SellerID,
			Price:      it.Price,
			Quantity:   it.Quantity,
			Commission: float64(it.CommissionPercentage),
		}
	}
	return lines
}

// firstSellerZone is empty when the seller is gone or never set a zone.
func firstSellerZone(tx *gorm.DB, sellerID string) (models.DeliveryZone, error) {
	var seller models.User
	err := tx.Select("id", "zone").First(&seller, "id = ?", sellerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "load seller zone")
	}
	return seller.Zone, nil
}

// cartLines snapshots the buyer's cart against live product rows.
func cartLines(tx *gorm.DB, buyerID string) (*models.Cart, []models.OrderItem, error) {
	var cart models.Cart
	err := tx.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("user_id = ?", buyerID).First(&cart).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, errors.Wrap(err, "load cart")
	}
	if len(cart.Items) == 0 {
		return nil, nil, invalid("your cart is empty")
	}

	ids := make([]string, len(cart.Items))
	for i, ci := range cart.Items {
		ids[i] = ci.ProductID
	}
	var products []models.Product
	if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, nil, errors.Wrap(err, "load cart products")
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		p, ok := byID[ci.ProductID]
		if !ok {
			return nil, nil, newError(ErrNotFound, "a product in your cart no longer exists")
		}
		if !p.IsAvailable {
			return nil, nil, invalid("%s is currently unavailable", p.Name)
		}
		if ci.Quantity <= 0 {
			return nil, nil, invalid("invalid quantity for %s", p.Name)
		}
		items = append(items, models.OrderItem{
			ProductID:            p.ID,
			SellerID:             p.SellerID,
			Name:                 p.Name,
			Images:               p.Images,
			Category:             p.Category,
			Price:                p.Price,
			Quantity:             ci.Quantity,
			CommissionPercentage: p.CommissionPercentage,
		})
	}
	return &cart, items, nil
}

// -------- Core Logic --------

// QuoteCart previews the totals checkout would charge for the current cart.
func (s *Service) QuoteCart(ctx context.Context, buyerID string, zone models.DeliveryZone) (settlement.Quote, error) {
	var q settlement.Quote
	db := s.db.WithContext(ctx)
	_, items, err := cartLines(db, buyerID)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return q, nil
		}
		return q, err
	}
	sellerZone, err := firstSellerZone(db, items[0].SellerID)
	if err != nil {
		return q, err
	}
	return settlement.QuoteCart(linesOf(items), sellerZone, zone, s.pricing.Shipping), nil
}

// PlaceOrder turns the buyer's cart into a Pending order. The order, its
// notifications and the emptied cart are one transaction.
func (s *Service) PlaceOrder(ctx context.Context, buyerID string, req CheckoutRequest) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "services.PlaceOrder")
	defer span.End()

	if err := req.validate(); err != nil {
		return nil, err
	}

	var order models.Order
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		buyer, err := s.loadUser(tx, buyerID)
		if err != nil {
			return err
		}
		cart, items, err := cartLines(tx, buyerID)
		if err != nil {
			return err
		}
		sellerZone, err := firstSellerZone(tx, items[0].SellerID)
		if err != nil {
			return err
		}
		quote := settlement.QuoteCart(linesOf(items), sellerZone, req.DeliveryZone, s.pricing.Shipping)

		order = models.Order{
			ID:             uuid.NewString(),
			BuyerID:        buyer.ID,
			Items:          items,
			Total:          quote.Total,
			Status:         models.OrderStatusPending,
			Address:        req.Address,
			Contact:        req.Contact,
			DeliveryZone:   req.DeliveryZone,
			ShippingCost:   quote.ShippingCost,
			PlatformFee:    quote.PlatformFee,
			SellerReceives: quote.SellerReceives,
			CreatedAt:      s.now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return errors.Wrap(err, "create order")
		}
		order.DeriveSellerIDs()

		notes := make([]models.Notification, 0, len(order.SellerIDs)+1)
		for _, sid := range order.SellerIDs {
			n := s.newNotification(sid, models.NotificationNewOrder,
				fmt.Sprintf("New order #%s received from %s.", order.ShortID(), buyer.Name))
			n.OrderID = strPtr(order.ID)
			notes = append(notes, n)
		}
		n := s.newNotification(buyer.ID, models.NotificationOrderStatus,
			fmt.Sprintf("Your order #%s has been placed successfully.", order.ShortID()))
		n.OrderID = strPtr(order.ID)
		notes = append(notes, n)
		if err := tx.Create(&notes).Error; err != nil {
			return errors.Wrap(err, "create order notifications")
		}

		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return errors.Wrap(err, "clear cart")
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	metrics.GrossMerchandise.Add(order.Total - order.ShippingCost)
	span.SetAttributes(attribute.String("order.id", order.ID), attribute.Int("order.items", len(order.Items)))
	logger.Ctx(ctx).Info().Str("order_id", order.ID).Str("buyer_id", buyerID).Float64("total", order.Total).Msg("order placed")

	s.publish(ctx, events.Event{
		Kind:       events.OrderPlaced,
		Recipients: append([]string{order.BuyerID}, order.SellerIDs...),
		OrderID:    order.ID,
		Data:       order,
	})
	return &order, nil
}

// UpdateOrderStatus moves an order along its lifecycle on behalf of actor.
// Delivering an order re-evaluates the suspension threshold of each seller
// on it inside the same transaction, with the seller row locked so that
// concurrent deliveries are counted one after another.
func (s *Service) UpdateOrderStatus(ctx context.Context, actorID, orderID string, next models.OrderStatus) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "services.UpdateOrderStatus")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", orderID), attribute.String("order.next_status", string(next)))

	var (
		order     models.Order
		suspended []string
	)
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		order, suspended = models.Order{}, nil

		actor, err := s.loadUser(tx, actorID)
		if err != nil {
			return err
		}
		if err := tx.Clauses(forUpdate).Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			return lookupErr(err, "order")
		}
		if !policy.CanManageOrder(actor, &order) {
			return newError(ErrForbidden, "only the seller of this order or an admin can change its status")
		}
		if actor.Role == models.RoleSeller && actor.IsSuspended {
			return newError(ErrSellerSuspended, "your account is suspended")
		}
		if !order.Status.CanTransitionTo(next) {
			return newError(ErrInvalidTransition, "cannot change order from %s to %s", order.Status, next)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(map[string]interface{}{"status": next, "updated_at": s.now()})
		if res.Error != nil {
			return errors.Wrap(res.Error, "update order status")
		}
		if res.RowsAffected == 0 {
			return newError(ErrConflict, "order was changed by someone else, please reload")
		}
		order.Status = next

		n := s.newNotification(order.BuyerID, models.NotificationOrderStatus,
			fmt.Sprintf("Your order #%s is now %s.", order.ShortID(), next))
		n.OrderID = strPtr(order.ID)
		if err := tx.Create(&n).Error; err != nil {
			return errors.Wrap(err, "notify buyer")
		}

		if next != models.OrderStatusDelivered {
			return nil
		}
		sellers := append([]string(nil), order.SellerIDs...)
		sort.Strings(sellers) // fixed lock order
		for _, sid := range sellers {
			flipped, err := s.applySuspension(tx, sid, order.ID)
			if err != nil {
				return err
			}
			if flipped {
				suspended = append(suspended, sid)
			}
		}
		return nil
	})
	if err != nil {
		metrics.OrderTransitions.WithLabelValues(string(next), "rejected").Inc()
		span.RecordError(err)
		return nil, err
	}

	metrics.OrderTransitions.WithLabelValues(string(next), "ok").Inc()
	logger.Ctx(ctx).Info().Str("order_id", order.ID).Str("actor_id", actorID).Str("status", string(next)).Msg("order status changed")

	s.publish(ctx, events.Event{
		Kind:       events.OrderStatusChanged,
		Recipients: append([]string{order.BuyerID}, order.SellerIDs...),
		OrderID:    order.ID,
		Data:       map[string]interface{}{"status": order.Status},
	})
	for _, sid := range suspended {
		metrics.SellersSuspended.Inc()
		logger.Ctx(ctx).Warn().Str("seller_id", sid).Msg("seller suspended after reaching delivered order threshold")
		s.publish(ctx, events.Event{Kind: events.SellerSuspended, Recipients: []string{sid}, OrderID: order.ID})
	}
	return &order, nil
}

// applySuspension reports whether the seller was flipped to suspended.
// Setting the flag on an already suspended seller is a no-op.
func (s *Service) applySuspension(tx *gorm.DB, sellerID, orderID string) (bool, error) {
	var seller models.User
	err := tx.Clauses(forUpdate).First(&seller, "id = ?", sellerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "lock seller")
	}

	delivered, err := countDelivered(tx, sellerID)
	if err != nil {
		return false, err
	}
	if !s.pricing.Rules.ShouldSuspend(delivered) || seller.IsSuspended {
		return false, nil
	}

	if err := tx.Model(&models.User{}).Where("id = ?", sellerID).Update("is_suspended", true).Error; err != nil {
		return false, errors.Wrap(err, "suspend seller")
	}
	n := s.newNotification(sellerID, models.NotificationOrderStatus, suspensionMessage)
	n.OrderID = strPtr(orderID)
	if err := tx.Create(&n).Error; err != nil {
		return false, errors.Wrap(err, "notify suspended seller")
	}
	return true, nil
}

func countDelivered(tx *gorm.DB, sellerID string) (int64, error) {
	var n int64
	err := tx.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusDelivered).
		Where("id IN (?)", tx.Model(&models.OrderItem{}).Select("order_id").Where("seller_id = ?", sellerID)).
		Count(&n).Error
	return n, errors.Wrap(err, "count delivered orders")
}

// -------- Queries --------

func (s *Service) GetOrder(ctx context.Context, actorID, orderID string) (*models.Order, error) {
	db := s.db.WithContext(ctx)
	actor, err := s.loadUser(db, actorID)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		return nil, lookupErr(err, "order")
	}
	if !policy.CanViewOrder(actor, &order) {
		// do not reveal that the order exists
		return nil, newError(ErrNotFound, "order not found")
	}
	return &order, nil
}

func (s *Service) BuyerOrders(ctx context.Context, buyerID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, errors.Wrap(err, "list buyer orders")
}

// SellerOrders lists orders containing the seller's products, trimmed to
// their own lines. status may be empty for all.
func (s *Service) SellerOrders(ctx context.Context, sellerID string, status models.OrderStatus) ([]SellerOrder, error) {
	db := s.db.WithContext(ctx)
	q := db.Preload("Items").
		Where("id IN (?)", db.Model(&models.OrderItem{}).Select("order_id").Where("seller_id = ?", sellerID)).
		Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "list seller orders")
	}

	out := make([]SellerOrder, 0, len(orders))
	for _, o := range orders {
		own := make([]models.OrderItem, 0, len(o.Items))
		for _, it := range o.Items {
			if it.SellerID == sellerID {
				own = append(own, it)
			}
		}
		o.Items = own
		out = append(out, SellerOrder{Order: o, Settlement: settlement.Settle(linesOf(own))})
	}
	return out, nil
}

type OrderFilter struct {
	Status   models.OrderStatus
	SellerID string
	Limit    int
	Offset   int
}

// AllOrders is the staff listing.
func (s *Service) AllOrders(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	db := s.db.WithContext(ctx)
	scope := func(q *gorm.DB) *gorm.DB {
		if f.Status != "" {
			q = q.Where("status = ?", f.Status)
		}
		if f.SellerID != "" {
			q = q.Where("id IN (?)", db.Model(&models.OrderItem{}).Select("order_id").Where("seller_id = ?", f.SellerID))
		}
		return q
	}

	var total int64
	if err := db.Model(&models.Order{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	var orders []models.Order
	err := db.Scopes(scope).Preload("Items").Order("created_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&orders).Error
	return orders, total, errors.Wrap(err, "list orders")
}
