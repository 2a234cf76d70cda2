package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/pos"
)

type orderFixture struct {
	env     *testEnv
	cashier string
	table   models.Table
	latte   models.Product
	cookie  models.Product
}

// setupOrderFixture: meja A1, Latte (varian Hot/Iced) dan Cookie tanpa varian
func setupOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	env := newTestEnv(t)
	cat := seedCategory(t, env.db, "Coffee")
	return &orderFixture{
		env:     env,
		cashier: env.tokenFor(t, models.RoleCashier),
		table:   seedTable(t, env.db, "A1", pos.CodeOccupied),
		latte:   seedProduct(t, env.db, cat.ID, "Latte", "25000", variant("Hot", "25000"), variant("Iced", "28000")),
		cookie:  seedProduct(t, env.db, cat.ID, "Cookie", "12000"),
	}
}

func (f *orderFixture) orderBody(reference string) gin.H {
	return gin.H{
		"reference": reference,
		"table_id":  f.table.ID,
		"lines": []gin.H{
			{"product_id": f.latte.ID, "variant_id": f.latte.Variants[1].ID, "quantity": 2, "unit_price": "28000"},
			{"product_id": f.cookie.ID, "quantity": 1, "unit_price": "12000"},
		},
		"total": "68000",
	}
}

func TestSubmitOrder(t *testing.T) {
	f := setupOrderFixture(t)

	w := f.env.do(t, http.MethodPost, "/admin/orders", f.cashier, f.orderBody("ref-1"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	decodeResponse(t, w, &order)
	assert.NotZero(t, order.ID)
	assert.Equal(t, "ref-1", order.Reference)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(68000)), order.Total.String())
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Latte (Iced)", order.Items[0].Name)
	assert.True(t, order.Items[0].LineTotal.Equal(decimal.NewFromInt(56000)))
	assert.Equal(t, "Cookie", order.Items[1].Name)
	require.NotNil(t, order.CreatedBy)

	var items int64
	f.env.db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&items)
	assert.Equal(t, int64(2), items)
}

func TestSubmitOrderReplay(t *testing.T) {
	f := setupOrderFixture(t)

	w := f.env.do(t, http.MethodPost, "/admin/orders", f.cashier, f.orderBody("ref-retry"))
	require.Equal(t, http.StatusCreated, w.Code)
	var first models.Order
	decodeResponse(t, w, &first)

	w = f.env.do(t, http.MethodPost, "/admin/orders", f.cashier, f.orderBody("ref-retry"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var second models.Order
	decodeResponse(t, w, &second)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	f.env.db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitOrderRejects(t *testing.T) {
	f := setupOrderFixture(t)
	other := seedTable(t, f.env.db, "A2", pos.CodeOccupied)

	w := f.env.do(t, http.MethodPost, "/admin/orders", f.cashier, f.orderBody("taken"))
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name   string
		mutate func(b gin.H)
		want   int
	}{
		{"total mismatch", func(b gin.H) { b["total"] = "70000" }, http.StatusUnprocessableEntity},
		{"unknown table", func(b gin.H) { b["table_id"] = 99 }, http.StatusNotFound},
		{"empty lines", func(b gin.H) { b["lines"] = []gin.H{} }, http.StatusBadRequest},
		{"missing reference", func(b gin.H) { delete(b, "reference") }, http.StatusBadRequest},
		{"unknown product", func(b gin.H) {
			b["lines"] = []gin.H{{"product_id": 999, "quantity": 1, "unit_price": "1000"}}
			b["total"] = "1000"
		}, http.StatusBadRequest},
		{"variant required", func(b gin.H) {
			b["lines"] = []gin.H{{"product_id": f.latte.ID, "quantity": 1, "unit_price": "25000"}}
			b["total"] = "25000"
		}, http.StatusBadRequest},
		{"variant of another product", func(b gin.H) {
			b["lines"] = []gin.H{{"product_id": f.cookie.ID, "variant_id": f.latte.Variants[0].ID, "quantity": 1, "unit_price": "12000"}}
			b["total"] = "12000"
		}, http.StatusBadRequest},
		{"negative quantity", func(b gin.H) {
			b["lines"] = []gin.H{{"product_id": f.cookie.ID, "quantity": -1, "unit_price": "12000"}}
			b["total"] = "-12000"
		}, http.StatusBadRequest},
		{"negative price", func(b gin.H) {
			b["lines"] = []gin.H{{"product_id": f.cookie.ID, "quantity": 1, "unit_price": "-5"}}
			b["total"] = "-5"
		}, http.StatusBadRequest},
		{"reference used by another table", func(b gin.H) {
			b["reference"] = "taken"
			b["table_id"] = other.ID
		}, http.StatusConflict},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := f.orderBody("reject-" + string(rune('a'+i)))
			tt.mutate(body)
			w := f.env.do(t, http.MethodPost, "/admin/orders", f.cashier, body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	var count int64
	f.env.db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(1), count)
	f.env.db.Model(&models.OrderItem{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestSubmitOrderRequiresCashierRole(t *testing.T) {
	f := setupOrderFixture(t)
	chef := f.env.tokenFor(t, models.RoleChef)

	w := f.env.do(t, http.MethodPost, "/admin/orders", chef, f.orderBody("chef-ref"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	f := setupOrderFixture(t)
	chef := f.env.tokenFor(t, models.RoleChef)

	w := f.env.do(t, http.MethodPost, "/admin/orders", f.cashier, f.orderBody("kitchen"))
	require.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	decodeResponse(t, w, &order)

	w = f.env.do(t, http.MethodPatch, "/admin/orders/1/status", chef, gin.H{"status": models.OrderStatusProcessing})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = f.env.do(t, http.MethodPatch, "/admin/orders/1/status", chef, gin.H{"status": models.OrderStatusCompleted})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.env.do(t, http.MethodPatch, "/admin/orders/42/status", chef, gin.H{"status": models.OrderStatusReady})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var stored models.Order
	require.NoError(t, f.env.db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)
}

func TestGetOrders(t *testing.T) {
	f := setupOrderFixture(t)
	other := seedTable(t, f.env.db, "A2", pos.CodeOccupied)

	require.Equal(t, http.StatusCreated, f.env.do(t, http.MethodPost, "/admin/orders", f.cashier, f.orderBody("one")).Code)
	body := f.orderBody("two")
	body["table_id"] = other.ID
	require.Equal(t, http.StatusCreated, f.env.do(t, http.MethodPost, "/admin/orders", f.cashier, body).Code)

	var orders []models.Order
	w := f.env.do(t, http.MethodGet, "/admin/orders", f.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeResponse(t, w, &orders)
	assert.Len(t, orders, 2)

	w = f.env.do(t, http.MethodGet, "/admin/orders?table_id=2", f.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeResponse(t, w, &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, "two", orders[0].Reference)

	w = f.env.do(t, http.MethodGet, "/admin/orders?table_id=x", f.cashier, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var order models.Order
	w = f.env.do(t, http.MethodGet, "/admin/orders/1", f.cashier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeResponse(t, w, &order)
	require.NotNil(t, order.Table)
	assert.Equal(t, "A1", order.Table.Name)

	w = f.env.do(t, http.MethodGet, "/admin/orders/77", f.cashier, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
