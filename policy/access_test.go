package policy

import (
	"testing"

	"github.com/mohibbulwara/orjon/models"
	"github.com/stretchr/testify/assert"
)

func TestCanManageOrder(t *testing.T) {
	order := &models.Order{BuyerID: "b1", Items: []models.OrderItem{{SellerID: "s1"}, {SellerID: "s2"}}}

	assert.True(t, CanManageOrder(&models.User{ID: "a", Role: models.RoleAdmin}, order))
	assert.True(t, CanManageOrder(&models.User{ID: "s2", Role: models.RoleSeller}, order))
	assert.False(t, CanManageOrder(&models.User{ID: "s9", Role: models.RoleSeller}, order))
	assert.False(t, CanManageOrder(&models.User{ID: "b1", Role: models.RoleBuyer}, order))
	assert.False(t, CanManageOrder(&models.User{ID: "m", Role: models.RoleModerator}, order))
	assert.False(t, CanManageOrder(&models.User{ID: "x", Role: "root"}, order))
}

func TestCanViewOrder(t *testing.T) {
	order := &models.Order{BuyerID: "b1", Items: []models.OrderItem{{SellerID: "s1"}}}

	assert.True(t, CanViewOrder(&models.User{ID: "b1", Role: models.RoleBuyer}, order))
	assert.False(t, CanViewOrder(&models.User{ID: "b2", Role: models.RoleBuyer}, order))
	assert.True(t, CanViewOrder(&models.User{ID: "m", Role: models.RoleModerator}, order))
	assert.True(t, CanViewOrder(&models.User{ID: "s1", Role: models.RoleSeller}, order))
}

func TestRoleGates(t *testing.T) {
	assert.True(t, CanModerate(models.RoleModerator))
	assert.False(t, CanAdminister(models.RoleModerator))
	assert.True(t, CanAdminister(models.RoleAdmin))
	assert.True(t, CanSell(models.RoleSeller))
	assert.False(t, CanSell(models.RoleAdmin))
	assert.True(t, SelfRegisterable(models.RoleSeller))
	assert.False(t, SelfRegisterable(models.RoleAdmin))
}

func TestCanEditProduct(t *testing.T) {
	p := &models.Product{SellerID: "s1"}
	assert.True(t, CanEditProduct(&models.User{ID: "s1", Role: models.RoleSeller}, p))
	assert.False(t, CanEditProduct(&models.User{ID: "s2", Role: models.RoleSeller}, p))
	assert.True(t, CanEditProduct(&models.User{ID: "a", Role: models.RoleAdmin}, p))
	assert.False(t, CanEditProduct(&models.User{ID: "m", Role: models.RoleModerator}, p))
}
