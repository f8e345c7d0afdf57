package services

import (
	"context"
	"sort"

	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/settlement"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const topSellerCount = 5

type MonthlySales struct {
	Month string  `json:"month"` // YYYY-MM
	Sales float64 `json:"sales"`
}

type TopSeller struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ShopName     string  `json:"shop_name"`
	TotalRevenue float64 `json:"total_revenue"`
}

type CategoryCount struct {
	Name  models.Category `json:"name"`
	Value int64           `json:"value"`
}

type AdminStats struct {
	TotalRevenue         float64         `json:"total_revenue"`
	PlatformEarnings     float64         `json:"platform_earnings"`
	TotalOrders          int64           `json:"total_orders"`
	TotalProducts        int64           `json:"total_products"`
	TotalUsers           int64           `json:"total_users"`
	TotalSellers         int64           `json:"total_sellers"`
	SuspendedSellers     int64           `json:"suspended_sellers"`
	SalesByMonth         []MonthlySales  `json:"sales_by_month"`
	TopSellers           []TopSeller     `json:"top_sellers"`
	CategoryDistribution []CategoryCount `json:"category_distribution"`
}

// AdminStats aggregates the platform dashboard. Revenue figures only count
// delivered orders. The independent queries run concurrently.
func (s *Service) AdminStats(ctx context.Context) (*AdminStats, error) {
	ctx, span := tracer.Start(ctx, "services.AdminStats")
	defer span.End()

	st := &AdminStats{}
	var (
		delivered []models.Order
		sellers   []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	db := s.db.WithContext(gctx)

	g.Go(func() error {
		return errors.Wrap(db.Preload("Items").Where("status = ?", models.OrderStatusDelivered).
			Find(&delivered).Error, "load delivered orders")
	})
	g.Go(func() error {
		return errors.Wrap(db.Model(&models.Order{}).Count(&st.TotalOrders).Error, "count orders")
	})
	g.Go(func() error {
		return errors.Wrap(db.Model(&models.Product{}).Count(&st.TotalProducts).Error, "count products")
	})
	g.Go(func() error {
		return errors.Wrap(db.Model(&models.User{}).Count(&st.TotalUsers).Error, "count users")
	})
	g.Go(func() error {
		return errors.Wrap(db.Where("role = ?", models.RoleSeller).Find(&sellers).Error, "load sellers")
	})
	g.Go(func() error {
		return errors.Wrap(db.Model(&models.Product{}).
			Select("category AS name, COUNT(*) AS value").
			Group("category").Order("value DESC").
			Scan(&st.CategoryDistribution).Error, "category distribution")
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	monthly := map[string]float64{}
	var lines []settlement.Line
	for _, o := range delivered {
		st.TotalRevenue += o.Total
		monthly[o.CreatedAt.Format("2006-01")] += o.Total
		lines = append(lines, linesOf(o.Items)...)
	}
	st.PlatformEarnings = settlement.PlatformFee(lines)

	st.SalesByMonth = make([]MonthlySales, 0, len(monthly))
	for m, v := range monthly {
		st.SalesByMonth = append(st.SalesByMonth, MonthlySales{Month: m, Sales: v})
	}
	sort.Slice(st.SalesByMonth, func(i, j int) bool { return st.SalesByMonth[i].Month < st.SalesByMonth[j].Month })

	perSeller := settlement.BySeller(lines)
	st.TopSellers = make([]TopSeller, 0, len(sellers))
	for _, u := range sellers {
		st.TotalSellers++
		if u.IsSuspended {
			st.SuspendedSellers++
		}
		st.TopSellers = append(st.TopSellers, TopSeller{
			ID: u.ID, Name: u.Name, ShopName: u.ShopName,
			TotalRevenue: perSeller[u.ID].SellerReceives,
		})
	}
	sort.SliceStable(st.TopSellers, func(i, j int) bool {
		return st.TopSellers[i].TotalRevenue > st.TopSellers[j].TotalRevenue
	})
	if len(st.TopSellers) > topSellerCount {
		st.TopSellers = st.TopSellers[:topSellerCount]
	}
	if st.CategoryDistribution == nil {
		st.CategoryDistribution = []CategoryCount{}
	}
	return st, nil
}
