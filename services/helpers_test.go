package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mohibbulwara/orjon/config"
	"github.com/mohibbulwara/orjon/events"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recorder captures published events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) kinds() []events.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Kind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

type fixture struct {
	t   *testing.T
	db  *gorm.DB
	svc *Service
	pub *recorder
	ctx context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)

	pub := &recorder{}
	svc := New(db, config.DefaultPricing(), pub)
	return &fixture{t: t, db: db, svc: svc, pub: pub, ctx: context.Background()}
}

type userOpt func(*models.User)

func withZone(z models.DeliveryZone) userOpt { return func(u *models.User) { u.Zone = z } }
func withPlan(p models.Plan) userOpt         { return func(u *models.User) { u.PlanType = p } }
func withUploads(n int) userOpt              { return func(u *models.User) { u.ProductUploadCount = n } }
func suspended() userOpt                     { return func(u *models.User) { u.IsSuspended = true } }

func (f *fixture) user(role models.Role, name string, opts ...userOpt) *models.User {
	f.t.Helper()
	u := &models.User{
		ID:        name + "-" + uuid.NewString()[:8],
		Name:      name,
		Email:     name + "-" + uuid.NewString()[:8] + "@example.com",
		Role:      role,
		PlanType:  models.PlanFree,
		CreatedAt: time.Now().UTC(),
	}
	if role == models.RoleSeller {
		u.ShopName = name + " Kitchen"
		u.ShopAddress = "Station Road"
	}
	for _, o := range opts {
		o(u)
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

func (f *fixture) product(seller *models.User, price float64, commission int) *models.Product {
	f.t.Helper()
	p := &models.Product{
		ID:                   uuid.NewString(),
		SellerID:             seller.ID,
		Name:                 "Item " + uuid.NewString()[:4],
		Category:             models.CategoryBurger,
		Images:               []string{"https://img.test/a.jpg"},
		Price:                price,
		CommissionPercentage: commission,
		IsAvailable:          true,
		CreatedAt:            time.Now().UTC(),
	}
	require.NoError(f.t, f.db.Create(p).Error)
	return p
}

func (f *fixture) addToCart(buyer *models.User, p *models.Product, qty int) {
	f.t.Helper()
	_, err := f.svc.SetCartItem(f.ctx, buyer.ID, p.ID, qty)
	require.NoError(f.t, err)
}

// seedOrders inserts n orders for seller directly, bypassing checkout.
func (f *fixture) seedOrders(buyer, seller *models.User, status models.OrderStatus, n int) []models.Order {
	f.t.Helper()
	orders := make([]models.Order, n)
	for i := range orders {
		orders[i] = models.Order{
			ID:        uuid.NewString(),
			BuyerID:   buyer.ID,
			Status:    status,
			Total:     100,
			CreatedAt: time.Now().UTC(),
			Items: []models.OrderItem{{
				ProductID: "seeded", SellerID: seller.ID, Name: "Seeded",
				Price: 100, Quantity: 1, CommissionPercentage: 5,
			}},
		}
	}
	require.NoError(f.t, f.db.CreateInBatches(&orders, 50).Error)
	return orders
}

func (f *fixture) reload(u *models.User) *models.User {
	f.t.Helper()
	var fresh models.User
	require.NoError(f.t, f.db.First(&fresh, "id = ?", u.ID).Error)
	return &fresh
}

func (f *fixture) notifications(userID string) []models.Notification {
	f.t.Helper()
	var notes []models.Notification
	require.NoError(f.t, f.db.Where("user_id = ?", userID).Order("created_at").Find(&notes).Error)
	return notes
}
