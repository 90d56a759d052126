package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dimsumluna/ordering-backend/events"
	"github.com/dimsumluna/ordering-backend/middlewares"
	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/repository"
	"github.com/dimsumluna/ordering-backend/services"
	"github.com/dimsumluna/ordering-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderController struct {
	DB     *gorm.DB
	Orders repository.OrderRepository
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, Orders: repository.NewOrderRepository(db)}
}

type checkoutRequest struct {
	AddressID *uint           `json:"address_id"`
	Address   *addressRequest `json:"address"`
	Payment   json.RawMessage `json:"payment" binding:"required"`
}

// Checkout turns the caller's cart into an order. The serviceability
// gate and all validation run before any mutation; the order, its item
// snapshots, the outbox entry and the cart clear commit together.
func (oc *OrderController) Checkout(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var customer models.Customer
	if err := oc.DB.First(&customer, sess.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("customer account not found"))
		return
	}

	address, err := oc.resolveAddress(sess.UserID, &req)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Region gate first: outside the delivery area nothing is touched.
	if !services.Serviceable(address) {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("sorry, we currently deliver within Batangas only"))
		return
	}

	method := services.ParsePaymentMethod(req.Payment)
	if method.Label == services.LabelUnknown {
		utils.RespondError(c, http.StatusBadRequest, errors.New("please select a valid payment method"))
		return
	}

	var cartItems []models.CartItem
	if err := oc.DB.Where("customer_id = ?", sess.UserID).
		Order("id ASC").Find(&cartItems).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if len(cartItems) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("your cart is empty"))
		return
	}

	subtotal := 0.0
	orderItems := make([]models.OrderItem, 0, len(cartItems))
	for _, line := range cartItems {
		subtotal += line.Price * float64(line.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Price:      line.Price,
			Quantity:   line.Quantity,
			Category:   line.Category,
			ImageURL:   line.ImageURL,
		})
	}
	subtotal = utils.Round2(subtotal)
	shippingFee := services.ShippingFee(address)

	snapshot, err := json.Marshal(address)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	order := models.Order{
		CustomerID:        customer.ID,
		CustomerEmail:     customer.Email,
		CustomerName:      customer.Name,
		Status:            models.StatusProcessing,
		Subtotal:          subtotal,
		ShippingFee:       shippingFee,
		Total:             utils.Round2(subtotal + shippingFee),
		PaymentMethodID:   method.ID,
		PaymentMethodName: method.Label,
		AddressSnapshot:   string(snapshot),
		Items:             orderItems,
	}

	err = oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if err := services.EnqueueSync(tx, models.CollectionOrders, order.ID,
			models.SyncActionUpsert, "", order); err != nil {
			return err
		}
		// Cart is cleared only once the order is durably written.
		return tx.Where("customer_id = ?", sess.UserID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %d created for %s (total=%s)",
		order.ID, order.CustomerEmail, utils.FormatCurrencyPHP(order.Total))

	events.BroadcastOrderUpdate(order)
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// resolveAddress picks the saved address referenced by id, an inline
// address, or the caller's default, in that priority.
func (oc *OrderController) resolveAddress(customerID uint, req *checkoutRequest) (*models.Address, error) {
	if req.AddressID != nil {
		var address models.Address
		if err := oc.DB.Where("id = ? AND customer_id = ?", *req.AddressID, customerID).
			First(&address).Error; err != nil {
			return nil, errors.New("shipping address not found")
		}
		return &address, nil
	}

	if req.Address != nil {
		if req.Address.Address == "" {
			return nil, errors.New("shipping address is required")
		}
		return &models.Address{
			CustomerID: customerID,
			Name:       req.Address.Name,
			Line:       req.Address.Address,
			City:       req.Address.City,
			State:      req.Address.State,
			ZipCode:    req.Address.ZipCode,
			Country:    req.Address.Country,
			Phone:      req.Address.Phone,
		}, nil
	}

	var address models.Address
	if err := oc.DB.Where("customer_id = ? AND is_default = ?", customerID, true).
		First(&address).Error; err != nil {
		return nil, errors.New("no shipping address selected")
	}
	return &address, nil
}

// GetMyOrders -> the caller's orders, newest first
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	orders, err := oc.Orders.List(repository.OrderFilter{CustomerID: sess.UserID})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Your orders", orders)
}

// GetOrderByID -> owner, staff, or admin
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	order, ok := oc.loadOrder(c)
	if !ok {
		return
	}

	if sess.Role == models.RoleCustomer && order.CustomerID != sess.UserID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetAllOrders -> staff/admin
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.List(repository.OrderFilter{Status: c.Query("status")})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All orders", orders)
}

// UpdateStatus -> staff/admin. The selector is free-choice over the
// four active statuses; sequence is not enforced. Cancelled orders
// never come back.
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	order, ok := oc.loadOrder(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	allowed := false
	for _, status := range models.AdminSettableStatuses {
		if req.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
		return
	}

	if order.Status == models.StatusCancelled {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cancelled orders cannot be updated"))
		return
	}

	now := time.Now()
	order.Status = req.Status
	order.StatusUpdatedAt = &now

	if err := oc.saveOrderWithSync(order); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// CancelByCustomer -> owner only, and only while still Processing
func (oc *OrderController) CancelByCustomer(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	order, ok := oc.loadOrder(c)
	if !ok {
		return
	}

	if order.CustomerID != sess.UserID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	if order.Status == models.StatusCancelled {
		utils.RespondError(c, http.StatusBadRequest, errors.New("this order is already cancelled"))
		return
	}
	if order.Status != models.StatusProcessing {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("orders can only be cancelled while still processing"))
		return
	}

	now := time.Now()
	order.Status = models.StatusCancelled
	order.CancelledByCustomer = true
	order.CancelledDate = &now

	if err := oc.saveOrderWithSync(order); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// CancelByStaff -> any active status; re-cancelling errors rather than
// silently doing nothing.
func (oc *OrderController) CancelByStaff(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	order, ok := oc.loadOrder(c)
	if !ok {
		return
	}

	if order.Status == models.StatusCancelled {
		utils.RespondError(c, http.StatusBadRequest, errors.New("this order is already cancelled"))
		return
	}

	actor := "staff"
	var staff models.StaffUser
	if err := oc.DB.First(&staff, sess.UserID).Error; err == nil {
		if staff.Name != "" {
			actor = staff.Name
		} else if staff.Email != "" {
			actor = staff.Email
		}
	}

	now := time.Now()
	order.Status = models.StatusCancelled
	order.CancelledByStaff = true
	order.CancelledBy = actor
	order.CancelledDate = &now

	if err := oc.saveOrderWithSync(order); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %d cancelled by %s", order.ID, actor)

	events.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Order cancelled", order)
}

// ConfirmReceived -> owner only, Delivered only. Writes the purchase
// history snapshot in the same transaction; the order is retained so
// staff views stay accurate.
func (oc *OrderController) ConfirmReceived(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	order, ok := oc.loadOrder(c)
	if !ok {
		return
	}

	if order.CustomerID != sess.UserID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	if order.Status != models.StatusDelivered {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("only delivered orders can be confirmed"))
		return
	}
	if order.ConfirmedReceived {
		utils.RespondError(c, http.StatusBadRequest, errors.New("this order is already confirmed"))
		return
	}

	now := time.Now()
	order.ConfirmedReceived = true
	order.ConfirmedDate = &now

	record := models.PurchaseRecord{
		OrderID:           order.ID,
		CustomerID:        order.CustomerID,
		Date:              now,
		OriginalOrderDate: order.CreatedAt,
		Total:             order.Total,
		PaymentMethodID:   order.PaymentMethodID,
		PaymentMethodName: order.PaymentMethodName,
		AddressSnapshot:   order.AddressSnapshot,
	}
	for _, item := range order.Items {
		record.Items = append(record.Items, models.PurchaseItem{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"confirmed_received": true,
				"confirmed_date":     now,
			}).Error; err != nil {
			return err
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return services.EnqueueSync(tx, models.CollectionOrders, order.ID,
			models.SyncActionUpsert, order.RemoteKey, order)
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderUpdate(*order)
	utils.RespondJSON(c, http.StatusOK, "Order confirmed", gin.H{
		"order":    order,
		"purchase": record,
	})
}

// GetPurchaseHistory -> the caller's confirmed purchases
func (oc *OrderController) GetPurchaseHistory(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	var records []models.PurchaseRecord
	if err := oc.DB.Preload("Items").
		Where("customer_id = ?", sess.UserID).
		Order("date DESC").
		Find(&records).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Purchase history", records)
}

// DeleteOrder -> admin only; hard delete, distinct from Cancel. The
// remote mirror entry is removed best-effort through the outbox.
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)
	if sess.Role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	order, ok := oc.loadOrder(c)
	if !ok {
		return
	}

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := oc.Orders.Delete(tx, order.ID); err != nil {
			return err
		}
		return services.EnqueueSync(tx, models.CollectionOrders, order.ID,
			models.SyncActionDelete, order.RemoteKey, nil)
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Order %d permanently deleted", order.ID)
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}

// Normalize -> admin only; runs the payment backfill pass on demand
func (oc *OrderController) Normalize(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)
	if sess.Role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	changed, err := services.NormalizeOrders(oc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Normalization complete", gin.H{
		"orders_updated": changed,
	})
}

func (oc *OrderController) loadOrder(c *gin.Context) (*models.Order, bool) {
	orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order_id"))
		return nil, false
	}

	order, err := oc.Orders.Get(uint(orderID))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return nil, false
	}
	return order, true
}

// saveOrderWithSync persists a lifecycle mutation together with its
// outbox entry. Monetary fields and items are never written here other
// than as part of the mirrored snapshot.
func (oc *OrderController) saveOrderWithSync(order *models.Order) error {
	return oc.DB.Transaction(func(tx *gorm.DB) error {
		if err := oc.Orders.Upsert(tx, order); err != nil {
			return err
		}
		return services.EnqueueSync(tx, models.CollectionOrders, order.ID,
			models.SyncActionUpsert, order.RemoteKey, order)
	})
}
