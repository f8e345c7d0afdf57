package services

import (
	"fmt"
	"testing"

	"github.com/mohibbulwara/orjon/events"
	"github.com/mohibbulwara/orjon/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func burger(name string) ProductInput {
	return ProductInput{
		Name:                 name,
		Description:          "Beef patty, cheddar",
		Category:             models.CategoryBurger,
		Images:               []string{"https://img.test/burger.jpg"},
		Price:                250,
		Tags:                 []string{models.TagSpicy},
		DeliveryTime:         "30 min",
		CommissionPercentage: 7,
	}
}

func TestCreateProductQuota(t *testing.T) {
	f := newFixture(t)
	seller := f.user(models.RoleSeller, "karim")
	buyer := f.user(models.RoleBuyer, "nadia")

	for i := 0; i < 5; i++ {
		p, err := f.svc.CreateProduct(f.ctx, seller.ID, burger(fmt.Sprintf("Burger %d", i)))
		require.NoError(t, err)
		assert.True(t, p.IsAvailable)
	}
	_, err := f.svc.CreateProduct(f.ctx, seller.ID, burger("One too many"))
	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, "Upload limit for free plan reached.", err.Error())

	assert.Equal(t, 5, f.reload(seller).ProductUploadCount)
	var count int64
	f.db.Model(&models.Product{}).Where("seller_id = ?", seller.ID).Count(&count)
	assert.Equal(t, int64(5), count)

	notes := f.notifications(buyer.ID)
	require.Len(t, notes, 5)
	assert.Equal(t, models.NotificationNewProduct, notes[0].Type)
	assert.Equal(t, "New product added: Burger 0 by karim Kitchen", notes[0].Message)
	assert.Contains(t, f.pub.kinds(), events.ProductCreated)
}

func TestDeletingProductsDoesNotRefundQuota(t *testing.T) {
	f := newFixture(t)
	seller := f.user(models.RoleSeller, "karim", withUploads(4))

	p, err := f.svc.CreateProduct(f.ctx, seller.ID, burger("Last slot"))
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteProduct(f.ctx, seller.ID, p.ID))

	_, err = f.svc.CreateProduct(f.ctx, seller.ID, burger("Again"))
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestProPlanHasNoQuota(t *testing.T) {
	f := newFixture(t)
	seller := f.user(models.RoleSeller, "karim", withPlan(models.PlanPro), withUploads(40))
	_, err := f.svc.CreateProduct(f.ctx, seller.ID, burger("Unlimited"))
	require.NoError(t, err)
	assert.Equal(t, 41, f.reload(seller).ProductUploadCount)
}

func TestUpgradeLiftsQuota(t *testing.T) {
	f := newFixture(t)
	seller := f.user(models.RoleSeller, "karim", withUploads(5))

	q, err := f.svc.UploadQuota(f.ctx, seller.ID)
	require.NoError(t, err)
	assert.False(t, q.CanUpload)
	assert.Equal(t, 0, q.Remaining)

	u, err := f.svc.UpgradePlan(f.ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, u.PlanType)

	_, err = f.svc.CreateProduct(f.ctx, seller.ID, burger("Now allowed"))
	assert.NoError(t, err)
}

func TestCreateProductRejects(t *testing.T) {
	f := newFixture(t)
	seller := f.user(models.RoleSeller, "karim")
	buyer := f.user(models.RoleBuyer, "nadia")
	banned := f.user(models.RoleSeller, "banned", suspended())

	_, err := f.svc.CreateProduct(f.ctx, buyer.ID, burger("Nope"))
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.CreateProduct(f.ctx, banned.ID, burger("Nope"))
	assert.ErrorIs(t, err, ErrSellerSuspended)

	bad := burger("Odd commission")
	bad.CommissionPercentage = 6
	_, err = f.svc.CreateProduct(f.ctx, seller.ID, bad)
	assert.ErrorIs(t, err, ErrValidation)

	bad = burger("No category")
	bad.Category = "Sushi"
	_, err = f.svc.CreateProduct(f.ctx, seller.ID, bad)
	assert.ErrorIs(t, err, ErrValidation)

	assert.Zero(t, f.reload(seller).ProductUploadCount)
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture(t)
	seller := f.user(models.RoleSeller, "karim")
	other := f.user(models.RoleSeller, "rahim")
	mod := f.user(models.RoleModerator, "mod")
	admin := f.user(models.RoleAdmin, "admin")
	p := f.product(seller, 100, 5)

	price := 120.0
	updated, err := f.svc.UpdateProduct(f.ctx, seller.ID, p.ID, ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 120.0, updated.Price)

	_, err = f.svc.UpdateProduct(f.ctx, other.ID, p.ID, ProductPatch{Price: &price})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.UpdateProduct(f.ctx, mod.ID, p.ID, ProductPatch{Price: &price})
	assert.ErrorIs(t, err, ErrForbidden)

	rating := 4.8
	_, err = f.svc.UpdateProduct(f.ctx, seller.ID, p.ID, ProductPatch{Rating: &rating})
	assert.ErrorIs(t, err, ErrForbidden, "sellers cannot rate themselves")
	updated, err = f.svc.UpdateProduct(f.ctx, admin.ID, p.ID, ProductPatch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 4.8, updated.Rating)

	off, err := f.svc.SetProductAvailability(f.ctx, seller.ID, p.ID, false)
	require.NoError(t, err)
	assert.False(t, off.IsAvailable)

	listed, err := f.svc.ListProducts(f.ctx, ProductFilter{SellerID: seller.ID})
	require.NoError(t, err)
	assert.Empty(t, listed)
	listed, err = f.svc.ListProducts(f.ctx, ProductFilter{SellerID: seller.ID, IncludeUnavailable: true})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestListProductsSearch(t *testing.T) {
	f := newFixture(t)
	seller := f.user(models.RoleSeller, "karim", withPlan(models.PlanPro))
	_, err := f.svc.CreateProduct(f.ctx, seller.ID, burger("Smoky Burger"))
	require.NoError(t, err)
	pizza := burger("Margherita")
	pizza.Category = models.CategoryPizza
	pizza.Description = "Tomato and basil"
	_, err = f.svc.CreateProduct(f.ctx, seller.ID, pizza)
	require.NoError(t, err)

	got, err := f.svc.ListProducts(f.ctx, ProductFilter{Search: "smoky"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Smoky Burger", got[0].Name)

	got, err = f.svc.ListProducts(f.ctx, ProductFilter{Category: models.CategoryPizza, Search: "basil"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = f.svc.GetProduct(f.ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListProductsPriceRangeAndSort(t *testing.T) {
	f := newFixture(t)
	seller := f.user(models.RoleSeller, "karim")
	for _, price := range []float64{80, 150, 320} {
		f.product(seller, price, 5)
	}
	lo, hi := 100.0, 400.0
	got, err := f.svc.ListProducts(f.ctx, ProductFilter{MinPrice: &lo, MaxPrice: &hi, SortBy: "price", Ascending: true})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 150.0, got[0].Price)
	assert.Equal(t, 320.0, got[1].Price)

	got, err = f.svc.ListProducts(f.ctx, ProductFilter{SortBy: "price"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 320.0, got[0].Price)
}
