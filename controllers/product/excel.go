package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/httperr"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/services"
	"github.com/pkg/errors"
	"github.com/tealeg/xlsx"
)

type rowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

func splitCell(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseCatalogRow reads one row in the catalogHeaders layout. The ID column
// is ignored; every row becomes a new product.
func parseCatalogRow(row *xlsx.Row) (services.ProductInput, error) {
	get := func(index int) string {
		if index < len(row.Cells) {
			return strings.TrimSpace(row.Cells[index].String())
		}
		return ""
	}

	in := services.ProductInput{
		Name:         get(1),
		Description:  get(2),
		Category:     models.Category(get(3)),
		Images:       splitCell(get(6)),
		Tags:         splitCell(get(7)),
		DeliveryTime: get(8),
	}
	price, err := strconv.ParseFloat(get(4), 64)
	if err != nil {
		return in, errors.New("invalid price")
	}
	in.Price = price
	if raw := get(5); raw != "" {
		orig, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, errors.New("invalid original price")
		}
		in.OriginalPrice = &orig
	}
	in.CommissionPercentage = 5
	if raw := get(9); raw != "" {
		commission, err := strconv.Atoi(raw)
		if err != nil {
			return in, errors.New("invalid commission")
		}
		in.CommissionPercentage = commission
	}
	return in, nil
}

// ImportProductsFromExcel bulk-creates products from an uploaded sheet.
// Each row goes through the normal create path, so the upload quota
// applies row by row and the import stops once it is used up.
func ImportProductsFromExcel(svc *services.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			httperr.BadRequest(c, "Excel file is required")
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			httperr.BadRequest(c, "Failed to open Excel file")
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			httperr.BadRequest(c, "Failed to parse Excel file")
			return
		}
		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			httperr.BadRequest(c, "Excel file is empty or missing header row")
			return
		}

		ctx := c.Request.Context()
		sellerID := middleware.UserID(c)
		sheet := xlFile.Sheets[0]
		created := 0
		quotaReached := false
		var skipped []rowError

	rows:
		for i := 1; i < len(sheet.Rows); i++ {
			in, err := parseCatalogRow(sheet.Rows[i])
			if err != nil {
				skipped = append(skipped, rowError{Row: i + 1, Error: err.Error()})
				continue
			}
			_, err = svc.CreateProduct(ctx, sellerID, in)
			switch {
			case err == nil:
				created++
			case errors.Is(err, services.ErrValidation):
				skipped = append(skipped, rowError{Row: i + 1, Error: err.Error()})
			case errors.Is(err, services.ErrQuotaExceeded):
				quotaReached = true
				skipped = append(skipped, rowError{Row: i + 1, Error: err.Error()})
				break rows
			default:
				httperr.Write(c, err)
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": created,
			"skipped":       skipped,
			"quota_reached": quotaReached,
		})
	}
}
