package policy

import "github.com/mohibbulwara/orjon/models"

// CanManageOrder: admins, or a seller with at least one line on the order.
func CanManageOrder(actor *models.User, order *models.Order) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleSeller:
		return order.HasSeller(actor.ID)
	case models.RoleBuyer, models.RoleModerator:
		return false
	default:
		return false
	}
}

// CanViewOrder adds the buyer and staff read access.
func CanViewOrder(actor *models.User, order *models.Order) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleModerator:
		return true
	case models.RoleSeller:
		return order.HasSeller(actor.ID) || order.BuyerID == actor.ID
	case models.RoleBuyer:
		return order.BuyerID == actor.ID
	default:
		return false
	}
}

// CanModerate grants read access to platform-wide listings.
func CanModerate(role models.Role) bool {
	switch role {
	case models.RoleAdmin, models.RoleModerator:
		return true
	case models.RoleBuyer, models.RoleSeller:
		return false
	default:
		return false
	}
}

// CanAdminister covers destructive platform actions.
func CanAdminister(role models.Role) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleBuyer, models.RoleSeller, models.RoleModerator:
		return false
	default:
		return false
	}
}

func CanSell(role models.Role) bool {
	switch role {
	case models.RoleSeller:
		return true
	case models.RoleBuyer, models.RoleAdmin, models.RoleModerator:
		return false
	default:
		return false
	}
}

// CanEditProduct: the owning seller or an admin.
func CanEditProduct(actor *models.User, p *models.Product) bool {
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleSeller:
		return p.SellerID == actor.ID
	case models.RoleBuyer, models.RoleModerator:
		return false
	default:
		return false
	}
}

// SelfRegisterable roles can be chosen at sign-up.
func SelfRegisterable(role models.Role) bool {
	switch role {
	case models.RoleBuyer, models.RoleSeller:
		return true
	case models.RoleAdmin, models.RoleModerator:
		return false
	default:
		return false
	}
}
