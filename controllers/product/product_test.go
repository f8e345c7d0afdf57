package productcontroller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mohibbulwara/orjon/auth"
	"github.com/mohibbulwara/orjon/config"
	"github.com/mohibbulwara/orjon/events"
	"github.com/mohibbulwara/orjon/middleware"
	"github.com/mohibbulwara/orjon/models"
	"github.com/mohibbulwara/orjon/services"
	"github.com/mohibbulwara/orjon/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

type env struct {
	db     *gorm.DB
	router *gin.Engine
	token  string
	seller *models.User
}

func setup(t *testing.T, uploads int) *env {
	t.Helper()
	db := testutil.DB(t)
	seller := &models.User{
		ID: "seller-1", Name: "Karim", Email: "k@example.com", Role: models.RoleSeller,
		ShopName: "Karim Kitchen", PlanType: models.PlanFree, ProductUploadCount: uploads,
	}
	require.NoError(t, db.Create(seller).Error)

	svc := services.New(db, config.DefaultPricing(), events.Nop)
	iss := auth.NewIssuer("s3cret", time.Hour)
	token, err := iss.Issue(seller)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/products", GetProducts(svc))
	s := r.Group("/seller", middleware.ValidateToken(iss), middleware.RequireRoles(models.RoleSeller))
	s.POST("/products", CreateProduct(svc))
	s.POST("/products/import", ImportProductsFromExcel(svc))
	s.GET("/products/export", ExportProductsToExcel(svc))
	return &env{db: db, router: r, token: token, seller: seller}
}

func (e *env) do(req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func productJSON(name string) *bytes.Reader {
	b, _ := json.Marshal(gin.H{
		"name": name, "category": "Burger", "price": 220,
		"images": []string{"https://img.test/b.jpg"}, "commission_percentage": 5,
	})
	return bytes.NewReader(b)
}

func TestCreateProductHitsQuota(t *testing.T) {
	e := setup(t, 4)

	req := httptest.NewRequest(http.MethodPost, "/seller/products", productJSON("Fifth"))
	req.Header.Set("Content-Type", "application/json")
	w := e.do(req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/seller/products", productJSON("Sixth"))
	req.Header.Set("Content-Type", "application/json")
	w = e.do(req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Upload limit for free plan reached."}`, w.Body.String())

	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products?category=Burger", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fifth")
	assert.NotContains(t, w.Body.String(), "Sixth")
}

func TestGetProductsRejectsBadFilter(t *testing.T) {
	e := setup(t, 0)
	for _, q := range []string{"?category=Sushi", "?min_price=cheap"} {
		w := httptest.NewRecorder()
		e.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products"+q, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func sheetUpload(t *testing.T, rows [][]string) *http.Request {
	t.Helper()
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	require.NoError(t, err)
	header := sheet.AddRow()
	for _, h := range catalogHeaders {
		header.AddCell().SetString(h)
	}
	for _, r := range rows {
		row := sheet.AddRow()
		for _, v := range r {
			row.AddCell().SetString(v)
		}
	}
	var sheetBuf bytes.Buffer
	require.NoError(t, file.Write(&sheetBuf))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write(sheetBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/seller/products/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportStopsAtQuota(t *testing.T) {
	e := setup(t, 3)
	row := func(name, price string) []string {
		return []string{"", name, "", "Pizza", price, "", "https://img.test/p.jpg", "", "25 min", "7"}
	}
	w := e.do(sheetUpload(t, [][]string{
		row("Margherita", "400"),
		row("Broken", "free"),
		row("Pepperoni", "450"),
		row("Hawaiian", "420"),
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Created      int        `json:"created_count"`
		Skipped      []rowError `json:"skipped"`
		QuotaReached bool       `json:"quota_reached"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Created)
	assert.True(t, resp.QuotaReached)
	require.Len(t, resp.Skipped, 2)
	assert.Equal(t, 3, resp.Skipped[0].Row)
	assert.Equal(t, 5, resp.Skipped[1].Row)

	var count int64
	e.db.Model(&models.Product{}).Where("seller_id = ?", e.seller.ID).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestExportMatchesImportLayout(t *testing.T) {
	e := setup(t, 0)
	req := httptest.NewRequest(http.MethodPost, "/seller/products", productJSON("Smash"))
	req.Header.Set("Content-Type", "application/json")
	require.Equal(t, http.StatusCreated, e.do(req).Code)

	w := e.do(httptest.NewRequest(http.MethodGet, "/seller/products/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	book, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	rows := book.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0].Cells[1].Value)

	in, err := parseCatalogRow(rows[1])
	require.NoError(t, err)
	assert.Equal(t, "Smash", in.Name)
	assert.Equal(t, models.Category("Burger"), in.Category)
	assert.Equal(t, 220.0, in.Price)
	assert.Equal(t, 5, in.CommissionPercentage)
}

func TestExportIncludesWholeCatalog(t *testing.T) {
	e := setup(t, 0)
	e.seller.PlanType = models.PlanPro
	require.NoError(t, e.db.Save(e.seller).Error)

	start := time.Now().UTC().Add(-time.Hour)
	products := make([]models.Product, 450)
	for i := range products {
		products[i] = models.Product{
			ID: fmt.Sprintf("p-%03d", i), SellerID: e.seller.ID, Name: fmt.Sprintf("Item %d", i),
			Category: models.CategoryBurger, Images: []string{"https://img.test/a.jpg"},
			Price: 100, CommissionPercentage: 5, IsAvailable: i%3 != 0,
			CreatedAt: start.Add(time.Duration(i) * time.Second),
		}
	}
	require.NoError(t, e.db.CreateInBatches(products, 100).Error)

	w := e.do(httptest.NewRequest(http.MethodGet, "/seller/products/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	book, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	rows := book.Sheets[0].Rows
	require.Len(t, rows, 451)

	seen := make(map[string]bool, 450)
	for _, row := range rows[1:] {
		seen[row.Cells[0].Value] = true
	}
	assert.Len(t, seen, 450)
	assert.Equal(t, "p-000", rows[1].Cells[0].Value)
	assert.Equal(t, "p-449", rows[450].Cells[0].Value)
}
