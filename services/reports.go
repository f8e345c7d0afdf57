package services

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/settlement"
	"github.com/pkg/errors"
	"github.com/tealeg/xlsx"
)

// SellerSettlement is one row of the payout report.
type SellerSettlement struct {
	SellerID string
	ShopName string
	Orders   int
	settlement.Breakdown
}

// Settlements computes what each seller is owed for orders delivered in
// [from, to).
func (s *Service) Settlements(ctx context.Context, from, to time.Time) ([]SellerSettlement, error) {
	db := s.db.WithContext(ctx)
	var orders []models.Order
	if err := db.Preload("Items").
		Where("status = ? AND created_at >= ? AND created_at < ?", models.OrderStatusDelivered, from, to).
		Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "load delivered orders")
	}

	var lines []settlement.Line
	orderCount := map[string]int{}
	for _, o := range orders {
		lines = append(lines, linesOf(o.Items)...)
		for _, sid := range o.SellerIDs {
			orderCount[sid]++
		}
	}
	perSeller := settlement.BySeller(lines)

	ids := make([]string, 0, len(perSeller))
	for id := range perSeller {
		ids = append(ids, id)
	}
	shopNames := map[string]string{}
	if len(ids) > 0 {
		var sellers []models.User
		if err := db.Select("id", "name", "shop_name").Where("id IN ?", ids).Find(&sellers).Error; err != nil {
			return nil, errors.Wrap(err, "load sellers")
		}
		for _, u := range sellers {
			shopNames[u.ID] = u.DisplayName()
		}
	}

	rows := make([]SellerSettlement, 0, len(perSeller))
	for id, b := range perSeller {
		rows = append(rows, SellerSettlement{SellerID: id, ShopName: shopNames[id], Orders: orderCount[id], Breakdown: b})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SellerReceives != rows[j].SellerReceives {
			return rows[i].SellerReceives > rows[j].SellerReceives
		}
		return rows[i].SellerID < rows[j].SellerID
	})
	return rows, nil
}

// ExportSettlements writes the payout report as an xlsx workbook.
func (s *Service) ExportSettlements(ctx context.Context, w io.Writer, from, to time.Time) error {
	rows, err := s.Settlements(ctx, from, to)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Settlements")
	if err != nil {
		return errors.Wrap(err, "create sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Seller ID", "Shop", "Orders", "Subtotal", "Platform Fee", "Seller Receives"} {
		header.AddCell().SetString(h)
	}

	var total settlement.Breakdown
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.SellerID)
		row.AddCell().SetString(r.ShopName)
		row.AddCell().SetInt(r.Orders)
		row.AddCell().SetFloat(settlement.Round2(r.Subtotal))
		row.AddCell().SetFloat(settlement.Round2(r.PlatformFee))
		row.AddCell().SetFloat(settlement.Round2(r.SellerReceives))
		total.Subtotal += r.Subtotal
		total.PlatformFee += r.PlatformFee
		total.SellerReceives += r.SellerReceives
	}

	footer := sheet.AddRow()
	footer.AddCell().SetString("TOTAL")
	footer.AddCell().SetString(from.Format("2006-01-02") + " to " + to.Format("2006-01-02"))
	footer.AddCell().SetString("")
	footer.AddCell().SetFloat(settlement.Round2(total.Subtotal))
	footer.AddCell().SetFloat(settlement.Round2(total.PlatformFee))
	footer.AddCell().SetFloat(settlement.Round2(total.SellerReceives))

	return errors.Wrap(file.Write(w), "write workbook")
}
