package services

import (
	"context"
	"strings"

	"github.com/mohibbulwara/orjon/logger"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/policy"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Identity is what the auth provider vouches for.
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

type RegisterRequest struct {
	Role        models.Role         `json:"role"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone"`
	ShopName    string              `json:"shop_name"`
	ShopAddress string              `json:"shop_address"`
	Zone        models.DeliveryZone `json:"zone"`
}

type ProfileUpdate struct {
	Name        *string              `json:"name"`
	Phone       *string              `json:"phone"`
	Avatar      *string              `json:"avatar"`
	ShopName    *string              `json:"shop_name"`
	ShopAddress *string              `json:"shop_address"`
	Zone        *models.DeliveryZone `json:"zone"`
}

// Login returns the stored account for an identity and fills in an empty
// name or avatar from the provider profile.
func (s *Service) Login(ctx context.Context, id Identity) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, "id = ?", id.UID).Error
	if err != nil {
		return nil, lookupErr(err, "account")
	}
	updates := map[string]interface{}{}
	if id.Picture != "" && u.Avatar == "" {
		updates["avatar"] = id.Picture
		u.Avatar = id.Picture
	}
	if id.Name != "" && u.Name == "" {
		updates["name"] = id.Name
		u.Name = id.Name
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&u).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "refresh profile")
		}
	}
	return &u, nil
}

// Register creates the account for a first-time identity. Staff roles are
// never self-assigned.
func (s *Service) Register(ctx context.Context, id Identity, req RegisterRequest) (*models.User, error) {
	if !policy.SelfRegisterable(req.Role) {
		return nil, invalid("you can register as a buyer or a seller")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = id.Name
	}
	if name == "" {
		return nil, invalid("name is required")
	}
	if id.Email == "" {
		return nil, invalid("the sign-in provider did not return an email")
	}

	u := models.User{
		ID:        id.UID,
		Name:      name,
		Email:     strings.ToLower(id.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Role:      req.Role,
		Avatar:    id.Picture,
		PlanType:  models.PlanFree,
		CreatedAt: s.now(),
		Cart:      models.Cart{UserID: id.UID},
	}
	if req.Role == models.RoleSeller {
		u.ShopName = strings.TrimSpace(req.ShopName)
		u.ShopAddress = strings.TrimSpace(req.ShopAddress)
		u.Zone = req.Zone
		if u.ShopName == "" || u.ShopAddress == "" {
			return nil, invalid("shop name and address are required for sellers")
		}
		if !u.Zone.Valid() {
			return nil, invalid("a valid delivery zone is required for sellers")
		}
	} else if req.Zone != "" {
		if !req.Zone.Valid() {
			return nil, invalid("unknown delivery zone %q", req.Zone)
		}
		u.Zone = req.Zone
	}

	err := s.transaction(ctx, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("id = ? OR email = ?", u.ID, u.Email).Count(&n).Error; err != nil {
			return errors.Wrap(err, "check existing account")
		}
		if n > 0 {
			return invalid("an account already exists for this email")
		}
		return errors.Wrap(tx.Create(&u).Error, "create account")
	})
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("account registered")
	return &u, nil
}

// EnsureAdmin signs in an operator-listed admin, creating or promoting the
// account as needed.
func (s *Service) EnsureAdmin(ctx context.Context, id Identity) (*models.User, error) {
	if id.UID == "" || id.Email == "" {
		return nil, invalid("the sign-in provider did not return an email")
	}
	var u models.User
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		err := tx.First(&u, "id = ?", id.UID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			u = models.User{
				ID:        id.UID,
				Name:      id.Name,
				Email:     strings.ToLower(id.Email),
				Role:      models.RoleAdmin,
				Avatar:    id.Picture,
				PlanType:  models.PlanFree,
				CreatedAt: s.now(),
				Cart:      models.Cart{UserID: id.UID},
			}
			return errors.Wrap(tx.Create(&u).Error, "create admin")
		case err != nil:
			return errors.Wrap(err, "load admin")
		}
		if u.Role == models.RoleAdmin {
			return nil
		}
		u.Role = models.RoleAdmin
		return errors.Wrap(tx.Model(&u).Update("role", models.RoleAdmin).Error, "promote admin")
	})
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info().Str("user_id", u.ID).Msg("admin signed in")
	return &u, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.loadUser(s.db.WithContext(ctx), id)
}

// UpdateProfile ignores empty values, like the profile form does.
func (s *Service) UpdateProfile(ctx context.Context, userID string, p ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil && strings.TrimSpace(*v) != "" {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	set("name", p.Name)
	set("phone", p.Phone)
	set("avatar", p.Avatar)
	set("shop_name", p.ShopName)
	set("shop_address", p.ShopAddress)
	if p.Zone != nil && *p.Zone != "" {
		if !p.Zone.Valid() {
			return nil, invalid("unknown delivery zone %q", *p.Zone)
		}
		updates["zone"] = *p.Zone
	}

	db := s.db.WithContext(ctx)
	u, err := s.loadUser(db, userID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return u, nil
	}
	if err := db.Model(u).Updates(updates).Error; err != nil {
		return nil, errors.Wrap(err, "update profile")
	}
	return s.loadUser(db, userID)
}

type UserFilter struct {
	Role   models.Role
	Search string
}

func (s *Service) ListUsers(ctx context.Context, f UserFilter) ([]models.User, error) {
	q := s.db.WithContext(ctx).Model(&models.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(shop_name) LIKE ?", like, like, like)
	}
	var users []models.User
	err := q.Order("created_at DESC").Find(&users).Error
	return users, errors.Wrap(err, "list users")
}

// DeleteUser removes an account. Admin accounts cannot be deleted; a
// seller's products go with them. Orders are kept for the books.
func (s *Service) DeleteUser(ctx context.Context, actorID, userID string) error {
	err := s.transaction(ctx, func(tx *gorm.DB) error {
		actor, err := s.loadUser(tx, actorID)
		if err != nil {
			return err
		}
		if !policy.CanAdminister(actor.Role) {
			return newError(ErrForbidden, "only admins can delete users")
		}
		target, err := s.lockUser(tx, userID)
		if err != nil {
			return err
		}
		if target.Role == models.RoleAdmin {
			return newError(ErrForbidden, "admin accounts cannot be deleted")
		}

		if target.Role == models.RoleSeller {
			sub := tx.Model(&models.Product{}).Select("id").Where("seller_id = ?", target.ID)
			if err := tx.Where("product_id IN (?)", sub).Delete(&models.CartItem{}).Error; err != nil {
				return errors.Wrap(err, "drop seller products from carts")
			}
			if err := tx.Where("seller_id = ?", target.ID).Delete(&models.Product{}).Error; err != nil {
				return errors.Wrap(err, "delete seller products")
			}
		}
		if err := tx.Where("user_id = ?", target.ID).Delete(&models.Notification{}).Error; err != nil {
			return errors.Wrap(err, "delete notifications")
		}
		cartIDs := tx.Model(&models.Cart{}).Select("cart_id").Where("user_id = ?", target.ID)
		if err := tx.Where("cart_id IN (?)", cartIDs).Delete(&models.CartItem{}).Error; err != nil {
			return errors.Wrap(err, "delete cart items")
		}
		if err := tx.Where("user_id = ?", target.ID).Delete(&models.Cart{}).Error; err != nil {
			return errors.Wrap(err, "delete cart")
		}
		return errors.Wrap(tx.Delete(target).Error, "delete user")
	})
	if err == nil {
		logger.Ctx(ctx).Warn().Str("user_id", userID).Str("actor_id", actorID).Msg("user deleted")
	}
	return err
}
