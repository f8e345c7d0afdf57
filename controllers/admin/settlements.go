package adminController

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/services"
	"github.com/mohibbulwara/orjon/settlement"
)

const dateLayout = "2006-01-02"

// settlementRange reads ?from=&to= (inclusive dates, UTC). It defaults to
// the current month.
func settlementRange(c *gin.Context, now time.Time) (time.Time, time.Time, bool) {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if raw := c.Query("from"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			httperr.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return from, to, false
		}
		from = d
	}
	if raw := c.Query("to"); raw != "" {
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			httperr.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return from, to, false
		}
		to = d.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		httperr.BadRequest(c, "to must not be before from")
		return from, to, false
	}
	return from, to, true
}

// GET /admin/settlements
func GetSettlements(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := settlementRange(c, time.Now())
		if !ok {
			return
		}
		rows, err := svc.Settlements(c.Request.Context(), from, to)
		if err != nil {
			httperr.Write(c, err)
			return
		}
		out := make([]gin.H, len(rows))
		for i, r := range rows {
			out[i] = gin.H{
				"seller_id":       r.SellerID,
				"shop_name":       r.ShopName,
				"orders":          r.Orders,
				"subtotal":        settlement.Display(r.Subtotal),
				"platform_fee":    settlement.Display(r.PlatformFee),
				"seller_receives": settlement.Display(r.SellerReceives),
			}
		}
		c.JSON(http.StatusOK, gin.H{"from": from.Format(dateLayout), "to": to.AddDate(0, 0, -1).Format(dateLayout), "settlements": out})
	}
}

// GET /admin/settlements/export
func ExportSettlements(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := settlementRange(c, time.Now())
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := svc.ExportSettlements(c.Request.Context(), &buf, from, to); err != nil {
			httperr.Write(c, err)
			return
		}
		filename := fmt.Sprintf("settlements_%s_%s.xlsx", from.Format(dateLayout), to.AddDate(0, 0, -1).Format(dateLayout))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Header("Expires", "0")
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}
