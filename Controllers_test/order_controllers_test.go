package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dimsumluna/ordering-backend/controllers"
	"github.com/dimsumluna/ordering-backend/middlewares"
	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/utils"
)

// Each test gets its own named in-memory database so pooled
// connections see the same schema without leaking state across tests.
func testDSN(t *testing.T) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
}

func setupTestDBForOrders(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(testDSN(t)), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.Customer{}, &models.StaffUser{}, &models.MenuItem{},
		&models.Address{}, &models.CartItem{}, &models.Order{}, &models.OrderItem{},
		&models.PurchaseRecord{}, &models.PurchaseItem{}, &models.SyncOutbox{},
	)
	if err != nil {
		panic(err)
	}

	db.Create(&models.MenuItem{Name: "Egg Tarts", Price: 85.00, Category: "Dessert", Available: true})
	db.Create(&models.Customer{Name: "Anna Cruz", Email: "anna@example.com", Password: "x"})
	db.Create(&models.StaffUser{Name: "Staff Member", Email: "staff@dimsum.com", Password: "x", Role: models.RoleStaff})
	return db
}

// setupOrderRouter wires order and cart handlers behind an injected
// session so tests can act as customer, staff, or admin.
func setupOrderRouter(db *gorm.DB, sess *middlewares.Session) *gin.Engine {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		middlewares.SetSession(c, *sess)
	})

	orderCtrl := controllers.NewOrderController(db)
	cartCtrl := controllers.NewCartController(db)

	router.POST("/cart", cartCtrl.AddToCart)
	router.GET("/cart", cartCtrl.GetCart)
	router.POST("/checkout", orderCtrl.Checkout)
	router.GET("/orders", orderCtrl.GetMyOrders)
	router.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	router.POST("/orders/:order_id/cancel", orderCtrl.CancelByCustomer)
	router.POST("/orders/:order_id/confirm", orderCtrl.ConfirmReceived)
	router.GET("/purchases", orderCtrl.GetPurchaseHistory)
	router.PATCH("/admin/orders/:order_id/status", orderCtrl.UpdateStatus)
	router.POST("/admin/orders/:order_id/cancel", orderCtrl.CancelByStaff)
	router.DELETE("/admin/orders/:order_id", orderCtrl.DeleteOrder)
	return router
}

func doJSON(router *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp["data"].(map[string]interface{})
	return data
}

func serviceableAddress() map[string]interface{} {
	return map[string]interface{}{
		"name":    "Anna Cruz",
		"address": "123 Mabini St",
		"city":    "Santo Tomas",
		"state":   "Batangas",
	}
}

// placeOrder adds two Egg Tarts and checks out with GCash, returning
// the created order id.
func placeOrder(t *testing.T, router *gin.Engine) uint {
	w := doJSON(router, "POST", "/cart", map[string]interface{}{"menu_item_id": 1, "quantity": 2})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/checkout", map[string]interface{}{
		"address": serviceableAddress(),
		"payment": "gcash",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	data := responseData(t, w)
	return uint(data["id"].(float64))
}

func TestCheckoutEndToEnd(t *testing.T) {
	db := setupTestDBForOrders(t)
	sess := &middlewares.Session{UserID: 1, Role: models.RoleCustomer}
	router := setupOrderRouter(db, sess)

	w := doJSON(router, "POST", "/cart", map[string]interface{}{"menu_item_id": 1, "quantity": 2})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/checkout", map[string]interface{}{
		"address": serviceableAddress(),
		"payment": "gcash",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	data := responseData(t, w)
	assert.Equal(t, 170.0, data["subtotal"])
	assert.Equal(t, 30.0, data["shipping_fee"])
	assert.Equal(t, 200.0, data["total"])
	assert.Equal(t, "Processing", data["status"])
	assert.Equal(t, "GCash", data["payment_method_name"])
	assert.Equal(t, "gcash", data["payment_method_id"])
	assert.Equal(t, "anna@example.com", data["customer_email"])

	// Cart cleared only after the order is durably written.
	w = doJSON(router, "GET", "/cart", nil)
	cart := responseData(t, w)
	assert.Empty(t, cart["items"])

	// Outbox entry committed with the order.
	var outboxCount int64
	db.Model(&models.SyncOutbox{}).Where("collection = ?", models.CollectionOrders).Count(&outboxCount)
	assert.Equal(t, int64(1), outboxCount)
}

func TestCheckoutServiceabilityGate(t *testing.T) {
	db := setupTestDBForOrders(t)
	sess := &middlewares.Session{UserID: 1, Role: models.RoleCustomer}
	router := setupOrderRouter(db, sess)

	w := doJSON(router, "POST", "/cart", map[string]interface{}{"menu_item_id": 1, "quantity": 1})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "POST", "/checkout", map[string]interface{}{
		"address": map[string]interface{}{
			"name":    "Anna Cruz",
			"address": "456 Taft Ave",
			"city":    "Manila",
			"state":   "Metro Manila",
		},
		"payment": "gcash",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Rejected before any mutation: cart intact, no order created.
	var cartCount, orderCount int64
	db.Model(&models.CartItem{}).Where("customer_id = ?", 1).Count(&cartCount)
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(1), cartCount)
	assert.Equal(t, int64(0), orderCount)
}

func TestCheckoutValidation(t *testing.T) {
	db := setupTestDBForOrders(t)
	sess := &middlewares.Session{UserID: 1, Role: models.RoleCustomer}
	router := setupOrderRouter(db, sess)

	// Empty cart.
	w := doJSON(router, "POST", "/checkout", map[string]interface{}{
		"address": serviceableAddress(),
		"payment": "gcash",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unresolvable payment method.
	doJSON(router, "POST", "/cart", map[string]interface{}{"menu_item_id": 1, "quantity": 1})
	w = doJSON(router, "POST", "/checkout", map[string]interface{}{
		"address": serviceableAddress(),
		"payment": "bank transfer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(0), orderCount)
}

func TestCustomerCancelGuards(t *testing.T) {
	db := setupTestDBForOrders(t)
	sess := &middlewares.Session{UserID: 1, Role: models.RoleCustomer}
	router := setupOrderRouter(db, sess)

	orderID := placeOrder(t, router)

	// Processing orders may be cancelled by their owner.
	w := doJSON(router, "POST", fmt.Sprintf("/orders/%d/cancel", orderID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "Cancelled", data["status"])
	assert.Equal(t, true, data["cancelled_by_customer"])

	// Re-cancel is an explicit error, not a no-op.
	w = doJSON(router, "POST", fmt.Sprintf("/orders/%d/cancel", orderID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Once progressed past Processing the owner may no longer cancel.
	secondID := placeOrder(t, router)
	sess.Role = models.RoleStaff
	w = doJSON(router, "PATCH", fmt.Sprintf("/admin/orders/%d/status", secondID),
		map[string]interface{}{"status": "Shipping"})
	assert.Equal(t, http.StatusOK, w.Code)

	sess.Role = models.RoleCustomer
	w = doJSON(router, "POST", fmt.Sprintf("/orders/%d/cancel", secondID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaffStatusAndCancel(t *testing.T) {
	db := setupTestDBForOrders(t)
	sess := &middlewares.Session{UserID: 1, Role: models.RoleCustomer}
	router := setupOrderRouter(db, sess)

	orderID := placeOrder(t, router)

	sess.UserID = 1
	sess.Role = models.RoleStaff

	// Free-choice selector: Processing may jump straight to Delivered.
	w := doJSON(router, "PATCH", fmt.Sprintf("/admin/orders/%d/status", orderID),
		map[string]interface{}{"status": "Delivered"})
	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "Delivered", data["status"])
	assert.NotNil(t, data["status_updated_at"])

	// Anything outside the selector set is rejected.
	w = doJSON(router, "PATCH", fmt.Sprintf("/admin/orders/%d/status", orderID),
		map[string]interface{}{"status": "Cancelled"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Staff may cancel any active order, with the actor recorded.
	w = doJSON(router, "POST", fmt.Sprintf("/admin/orders/%d/cancel", orderID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data = responseData(t, w)
	assert.Equal(t, true, data["cancelled_by_staff"])
	assert.Equal(t, "Staff Member", data["cancelled_by"])

	// Cancelled is terminal: no re-cancel, no status updates.
	w = doJSON(router, "POST", fmt.Sprintf("/admin/orders/%d/cancel", orderID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(router, "PATCH", fmt.Sprintf("/admin/orders/%d/status", orderID),
		map[string]interface{}{"status": "Processing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTotalsImmutableAcrossTransitions(t *testing.T) {
	db := setupTestDBForOrders(t)
	sess := &middlewares.Session{UserID: 1, Role: models.RoleCustomer}
	router := setupOrderRouter(db, sess)

	orderID := placeOrder(t, router)

	sess.Role = models.RoleStaff
	doJSON(router, "PATCH", fmt.Sprintf("/admin/orders/%d/status", orderID),
		map[string]interface{}{"status": "Delivered"})

	sess.Role = models.RoleCustomer
	w := doJSON(router, "POST", fmt.Sprintf("/orders/%d/confirm", orderID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	assert.NoError(t, db.Preload("Items").First(&order, orderID).Error)
	assert.Equal(t, 170.0, order.Subtotal)
	assert.Equal(t, 30.0, order.ShippingFee)
	assert.Equal(t, 200.0, order.Total)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestConfirmReceived(t *testing.T) {
	db := setupTestDBForOrders(t)
	sess := &middlewares.Session{UserID: 1, Role: models.RoleCustomer}
	router := setupOrderRouter(db, sess)

	orderID := placeOrder(t, router)

	// Not delivered yet.
	w := doJSON(router, "POST", fmt.Sprintf("/orders/%d/confirm", orderID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	sess.Role = models.RoleStaff
	doJSON(router, "PATCH", fmt.Sprintf("/admin/orders/%d/status", orderID),
		map[string]interface{}{"status": "Delivered"})

	sess.Role = models.RoleCustomer
	w = doJSON(router, "POST", fmt.Sprintf("/orders/%d/confirm", orderID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Confirming again is rejected.
	w = doJSON(router, "POST", fmt.Sprintf("/orders/%d/confirm", orderID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Snapshot written; the order itself is retained.
	var record models.PurchaseRecord
	assert.NoError(t, db.Preload("Items").Where("order_id = ?", orderID).First(&record).Error)
	assert.Equal(t, 200.0, record.Total)
	assert.Len(t, record.Items, 1)
	assert.Equal(t, "Egg Tarts", record.Items[0].Name)

	var order models.Order
	assert.NoError(t, db.First(&order, orderID).Error)
	assert.True(t, order.ConfirmedReceived)

	w = doJSON(router, "GET", "/purchases", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCancelledOrdersNeverEnterPurchaseHistory(t *testing.T) {
	db := setupTestDBForOrders(t)
	sess := &middlewares.Session{UserID: 1, Role: models.RoleCustomer}
	router := setupOrderRouter(db, sess)

	orderID := placeOrder(t, router)
	doJSON(router, "POST", fmt.Sprintf("/orders/%d/cancel", orderID), nil)

	w := doJSON(router, "POST", fmt.Sprintf("/orders/%d/confirm", orderID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.PurchaseRecord{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestPermanentDeleteIsAdminOnly(t *testing.T) {
	db := setupTestDBForOrders(t)
	sess := &middlewares.Session{UserID: 1, Role: models.RoleCustomer}
	router := setupOrderRouter(db, sess)

	orderID := placeOrder(t, router)

	sess.Role = models.RoleStaff
	w := doJSON(router, "DELETE", fmt.Sprintf("/admin/orders/%d", orderID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	sess.Role = models.RoleAdmin
	w = doJSON(router, "DELETE", fmt.Sprintf("/admin/orders/%d", orderID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Order{}).Where("id = ?", orderID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Mirror cleanup goes through the outbox.
	var deletes int64
	db.Model(&models.SyncOutbox{}).
		Where("collection = ? AND action = ?", models.CollectionOrders, models.SyncActionDelete).
		Count(&deletes)
	assert.Equal(t, int64(1), deletes)
}

func TestOrderOwnershipScope(t *testing.T) {
	db := setupTestDBForOrders(t)
	db.Create(&models.Customer{Name: "Ben Reyes", Email: "ben@example.com", Password: "x"})

	sess := &middlewares.Session{UserID: 1, Role: models.RoleCustomer}
	router := setupOrderRouter(db, sess)

	orderID := placeOrder(t, router)

	// Another customer cannot read or cancel it.
	sess.UserID = 2
	w := doJSON(router, "GET", fmt.Sprintf("/orders/%d", orderID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(router, "POST", fmt.Sprintf("/orders/%d/cancel", orderID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, "GET", "/orders", nil)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	orders, _ := resp["data"].([]interface{})
	assert.Empty(t, orders)
}
