// Package policy holds the storefront's account rules: upload quota,
// suspension threshold, seller badges and who may do what.
package policy

import (
	"time"

	"github.com/mohibbulwara/orjon/models"
)

type Rules struct {
	FreePlanUploadLimit int
	SuspensionThreshold int64
	RisingStarDays      int
	FavoriteRating      float64
	AllowedCommissions  []int
}

func DefaultRules() Rules {
	return Rules{
		FreePlanUploadLimit: 5,
		SuspensionThreshold: 100,
		RisingStarDays:      30,
		FavoriteRating:      4.5,
		AllowedCommissions:  []int{5, 7, 10},
	}
}

// CanUpload is the product quota gate.
func (r Rules) CanUpload(u *models.User) bool {
	return u.PlanType == models.PlanPro || u.ProductUploadCount < r.FreePlanUploadLimit
}

// RemainingUploads returns -1 for unlimited plans.
func (r Rules) RemainingUploads(u *models.User) int {
	if u.PlanType == models.PlanPro {
		return -1
	}
	if left := r.FreePlanUploadLimit - u.ProductUploadCount; left > 0 {
		return left
	}
	return 0
}

// ShouldSuspend is evaluated with the seller's delivered order count,
// including the order that was just delivered.
func (r Rules) ShouldSuspend(delivered int64) bool {
	return delivered >= r.SuspensionThreshold
}

func (r Rules) CommissionAllowed(pct int) bool {
	for _, c := range r.AllowedCommissions {
		if c == pct {
			return true
		}
	}
	return false
}

// SellerBadge classifies a seller; the first matching rule wins.
func (r Rules) SellerBadge(u *models.User, products []models.Product, now time.Time) models.SellerBadge {
	if u.PlanType == models.PlanPro {
		return models.BadgeTopSeller
	}
	if accountAgeDays(u.CreatedAt, now) <= r.RisingStarDays {
		return models.BadgeRisingStar
	}
	if avg, ok := AverageRating(products); ok && avg >= r.FavoriteRating {
		return models.BadgeCustomerFavorite
	}
	return models.BadgeNone
}

// accountAgeDays counts whole days; an unknown creation time is treated as now.
func accountAgeDays(created, now time.Time) int {
	if created.IsZero() {
		return 0
	}
	return int(now.Sub(created).Hours() / 24)
}

// AverageRating averages the rated products. A rating of 0 means unrated
// and is left out; ok is false when nothing is rated.
func AverageRating(products []models.Product) (avg float64, ok bool) {
	var (
		sum   float64
		rated int
	)
	for _, p := range products {
		if p.Rating <= 0 {
			continue
		}
		sum += p.Rating
		rated++
	}
	if rated == 0 {
		return 0, false
	}
	return sum / float64(rated), true
}
