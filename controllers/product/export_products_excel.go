package productcontroller

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/services"
	"github.com/tealeg/xlsx"
)

const exportPageSize = 200

// catalogHeaders is the sheet layout shared by import and export.
var catalogHeaders = []string{
	"ID", "Name", "Description", "Category", "Price", "OriginalPrice",
	"Images", "Tags", "DeliveryTime", "Commission", "Available",
}

// ExportProductsToExcel downloads the caller's catalog in the import layout.
func ExportProductsToExcel(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		for offset := 0; ; offset += exportPageSize {
			page, err := svc.ListProducts(c.Request.Context(), services.ProductFilter{
				SellerID:           middleware.UserID(c),
				IncludeUnavailable: true,
				SortBy:             "created_at",
				Ascending:          true,
				Limit:              exportPageSize,
				Offset:             offset,
			})
			if err != nil {
				httperr.Write(c, err)
				return
			}
			products = append(products, page...)
			if len(page) < exportPageSize {
				break
			}
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			httperr.Write(c, err)
			return
		}

		headerRow := sheet.AddRow()
		for _, h := range catalogHeaders {
			headerRow.AddCell().SetString(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetString(p.ID)
			row.AddCell().SetString(p.Name)
			row.AddCell().SetString(p.Description)
			row.AddCell().SetString(string(p.Category))
			row.AddCell().SetFloat(p.Price)
			if p.OriginalPrice != nil {
				row.AddCell().SetFloat(*p.OriginalPrice)
			} else {
				row.AddCell().SetString("")
			}
			row.AddCell().SetString(strings.Join(p.Images, ","))
			row.AddCell().SetString(strings.Join(p.Tags, ","))
			row.AddCell().SetString(p.DeliveryTime)
			row.AddCell().SetInt(p.CommissionPercentage)
			row.AddCell().SetBool(p.IsAvailable)
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			httperr.Write(c, err)
			return
		}
	}
}
