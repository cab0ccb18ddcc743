package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/subhlabh/billing/internal/backoffice"
	"github.com/subhlabh/billing/internal/catalog"
	"github.com/subhlabh/billing/internal/config"
	"github.com/subhlabh/billing/internal/domain"
	"github.com/subhlabh/billing/internal/service"
	"github.com/subhlabh/billing/pkg/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type stubBackoffice struct {
	saleErr error
}

func (s *stubBackoffice) SaveSale(ctx context.Context, req backoffice.SaleRequest) (backoffice.SaleConfirmation, error) {
	if s.saleErr != nil {
		return backoffice.SaleConfirmation{}, s.saleErr
	}
	return backoffice.SaleConfirmation{SaleID: 9, TotalAmount: dec("200")}, nil
}

func (s *stubBackoffice) CreateCustomer(ctx context.Context, req backoffice.CustomerRequest) (int64, error) {
	return 31, nil
}

func (s *stubBackoffice) PrintURL(saleID int64) string {
	return fmt.Sprintf("https://shop.example.com/sales/%d/print/", saleID)
}

func newTestRouter(t *testing.T, bo *stubBackoffice, keyHash string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	idx := catalog.NewIndex(catalog.Snapshot{
		Products: []domain.CatalogProduct{
			{ID: 1, Name: "Basmati Rice", Price: dec("100"), Kind: domain.ProductKindProduct, Unit: "kg", StockQuantity: dec("5"), IsActive: true},
			{ID: 2, Name: "Haircut", Price: dec("150"), Kind: domain.ProductKindService, IsActive: true},
		},
		Customers: []domain.CatalogCustomer{
			{ID: 10, Name: "Asha Verma", Phone: "9876543210"},
		},
		Offers: []domain.CatalogOffer{
			{ID: 100, Name: "Festive", Type: domain.OfferTypePercentage, DiscountValue: dec("10")},
			{ID: 101, Name: "Big Spender", Type: domain.OfferTypeFlat, DiscountValue: dec("30"), MinPurchaseAmount: dec("500")},
		},
	})

	cfg := &config.Config{Environment: "test", API: config.APIConfig{TerminalKeyHash: keyHash}}
	billing := service.NewBillingService(idx, bo, config.ShopConfig{Name: "Sharma General Store", CountryCode: "91"}, zap.NewNop())
	return NewRouter(cfg, billing, zap.NewNop())
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, &stubBackoffice{}, "")

	w, body := do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestCartEditing(t *testing.T) {
	r := newTestRouter(t, &stubBackoffice{}, "")

	w, body := do(t, r, http.MethodPost, "/v1/cart/items", `{"product_id": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "appended", body["outcome"])

	w, body = do(t, r, http.MethodPost, "/v1/cart/items", `{"product_id": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "incremented", body["outcome"])

	w, body = do(t, r, http.MethodPost, "/v1/cart/items", `{"product_id": 404}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ignored", body["outcome"])

	for _, bad := range []string{`"abc"`, `"1,5"`, `null`, `true`} {
		w, body = do(t, r, http.MethodPatch, "/v1/cart/lines/0", `{"quantity": `+bad+`}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, bad)
		assert.Contains(t, body["error"], "invalid quantity", bad)
	}

	w, body = do(t, r, http.MethodPatch, "/v1/cart/lines/0", `{"quantity": "0"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, body["error"], "invalid quantity")

	w, _ = do(t, r, http.MethodPatch, "/v1/cart/lines/0", `{"quantity": "6"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = do(t, r, http.MethodPatch, "/v1/cart/lines/3", `{"quantity": "1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = do(t, r, http.MethodPatch, "/v1/cart/lines/0", `{"quantity": "2.5"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "250.00", body["subtotal"])

	w, body = do(t, r, http.MethodPut, "/v1/cart/offer", `{"offer_id": 100}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "25.00", body["discount"])
	assert.Equal(t, "225.00", body["grand_total"])

	w, _ = do(t, r, http.MethodPut, "/v1/cart/offer", `{"offer_id": 999}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, r, http.MethodPut, "/v1/cart/offer", `{"offer_id": 101}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, body = do(t, r, http.MethodPost, "/v1/cart/custom-items", `{"name": "Gift wrap", "price": "50"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	lines := body["lines"].([]interface{})
	require.Len(t, lines, 2)
	custom := lines[1].(map[string]interface{})
	assert.Equal(t, "custom", custom["kind"])
	assert.Equal(t, "1", custom["quantity"])
	assert.NotContains(t, custom, "product_id")

	w, body = do(t, r, http.MethodDelete, "/v1/cart/lines/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["lines"], 1)

	w, _ = do(t, r, http.MethodPut, "/v1/cart/payment", `{"payment_method": "cheque"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, body = do(t, r, http.MethodPut, "/v1/cart/note", `{"note": "deliver after 6"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "deliver after 6", body["note"])
}

func TestSaveAndShare(t *testing.T) {
	r := newTestRouter(t, &stubBackoffice{}, "")

	do(t, r, http.MethodPost, "/v1/cart/items", `{"product_id": 1}`)
	do(t, r, http.MethodPost, "/v1/cart/items", `{"product_id": 1}`)

	w, _ := do(t, r, http.MethodPut, "/v1/cart/payment", `{"payment_method": "credit"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w, body := do(t, r, http.MethodPost, "/v1/cart/save", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	violations := body["violations"].([]interface{})
	assert.Equal(t, "select a customer for credit sales", violations[0].(map[string]interface{})["message"])

	w, body = do(t, r, http.MethodPut, "/v1/cart/customer", `{"customer_id": 10}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["is_paid"])

	w, body = do(t, r, http.MethodPost, "/v1/cart/save", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(9), body["sale_id"])
	assert.Equal(t, "200.00", body["total_amount"])

	w, _ = do(t, r, http.MethodPost, "/v1/cart/items", `{"product_id": 2}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, body = do(t, r, http.MethodGet, "/v1/cart/receipt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(body["share_url"].(string), "https://api.whatsapp.com/send?phone=919876543210&text="))
	assert.Equal(t, "https://shop.example.com/sales/9/print/", body["print_url"])
	assert.Contains(t, body["text"], "*Status:* Credit/Pending")

	w, body = do(t, r, http.MethodPost, "/v1/cart/new", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["locked"])
	assert.Empty(t, body["lines"])

	w, body = do(t, r, http.MethodGet, "/v1/catalog/products?q=rice", "")
	require.Equal(t, http.StatusOK, w.Code)
	products := body["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "3", products[0].(map[string]interface{})["stock_quantity"])
}

func TestSaveFailureReturnsBadGateway(t *testing.T) {
	bo := &stubBackoffice{saleErr: &errors.ErrNetworkFailure{Op: "save sale", Message: "Insufficient stock for Basmati Rice"}}
	r := newTestRouter(t, bo, "")

	do(t, r, http.MethodPost, "/v1/cart/items", `{"product_id": 1}`)

	w, body := do(t, r, http.MethodPost, "/v1/cart/save", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Insufficient stock for Basmati Rice", body["error"])

	w, body = do(t, r, http.MethodGet, "/v1/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["locked"])
	assert.Len(t, body["lines"], 1)
}

func TestCustomers(t *testing.T) {
	r := newTestRouter(t, &stubBackoffice{}, "")

	w, _ := do(t, r, http.MethodPost, "/v1/customers", `{"name": "Ravi", "phone": "91234"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, body := do(t, r, http.MethodPost, "/v1/customers", `{"name": "Ravi", "phone": "9123456780", "select": true}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(31), body["customer_id"])
	assert.Equal(t, true, body["selected"])

	w, body = do(t, r, http.MethodGet, "/v1/catalog/customers?q=ravi", "")
	require.Equal(t, http.StatusOK, w.Code)
	customers := body["customers"].([]interface{})
	require.Len(t, customers, 2)
	assert.Equal(t, "Walk-in Customer", customers[0].(map[string]interface{})["name"])
	assert.Equal(t, "Ravi", customers[1].(map[string]interface{})["name"])

	w, body = do(t, r, http.MethodGet, "/v1/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(31), body["customer"].(map[string]interface{})["id"])
}

func TestTerminalKeyRequired(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("counter-1"), bcrypt.MinCost)
	require.NoError(t, err)
	r := newTestRouter(t, &stubBackoffice{}, string(hash))

	w, _ := do(t, r, http.MethodGet, "/v1/cart", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
