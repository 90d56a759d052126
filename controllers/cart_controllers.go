package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dimsumluna/ordering-backend/middlewares"
	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/repository"
	"github.com/dimsumluna/ordering-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CartController struct {
	DB    *gorm.DB
	Menus repository.MenuRepository
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{DB: db, Menus: repository.NewMenuRepository(db)}
}

// GetCart -> the caller's cart lines plus the running total
func (cc *CartController) GetCart(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	var items []models.CartItem
	if err := cc.DB.Where("customer_id = ?", sess.UserID).
		Order("id ASC").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	total := 0.0
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}

	utils.RespondJSON(c, http.StatusOK, "Cart contents", gin.H{
		"items": items,
		"total": utils.Round2(total),
	})
}

// AddToCart merges by menu item (or by name) instead of appending a
// duplicate line. Unavailable items are rejected.
func (cc *CartController) AddToCart(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	var req struct {
		MenuItemID *uint  `json:"menu_item_id"`
		Name       string `json:"name"`
		Quantity   int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	// Resolve the catalog entry by id or name.
	var menuItem *models.MenuItem
	if req.MenuItemID != nil {
		item, err := cc.Menus.Get(*req.MenuItemID)
		if err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
			return
		}
		menuItem = item
	} else if req.Name != "" {
		var item models.MenuItem
		if err := cc.DB.Where("deleted = ? AND LOWER(name) = LOWER(?)", false, req.Name).
			First(&item).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
			return
		}
		menuItem = &item
	} else {
		utils.RespondError(c, http.StatusBadRequest, errors.New("menu_item_id or name is required"))
		return
	}

	if !menuItem.Available {
		utils.RespondError(c, http.StatusBadRequest, errors.New("this item is currently unavailable"))
		return
	}

	var line models.CartItem
	err := cc.DB.Where("customer_id = ? AND (menu_item_id = ? OR LOWER(name) = LOWER(?))",
		sess.UserID, menuItem.ID, menuItem.Name).First(&line).Error

	switch {
	case err == nil:
		line.Quantity += req.Quantity
		if err := cc.DB.Save(&line).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		menuID := menuItem.ID
		line = models.CartItem{
			CustomerID: sess.UserID,
			MenuItemID: &menuID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   req.Quantity,
			Category:   menuItem.Category,
			ImageURL:   menuItem.ImageURL,
		}
		if err := cc.DB.Create(&line).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item added to cart", line)
}

// UpdateQuantity applies a delta; a line reaching zero or below is
// removed entirely.
func (cc *CartController) UpdateQuantity(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item_id"))
		return
	}

	var req struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var line models.CartItem
	if err := cc.DB.Where("id = ? AND customer_id = ?", uint(itemID), sess.UserID).
		First(&line).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	line.Quantity += req.Delta
	if line.Quantity <= 0 {
		if err := cc.DB.Delete(&line).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Item removed from cart", nil)
		return
	}

	if err := cc.DB.Save(&line).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Quantity updated", line)
}

// RemoveItem deletes one line.
func (cc *CartController) RemoveItem(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid item_id"))
		return
	}

	result := cc.DB.Where("id = ? AND customer_id = ?", uint(itemID), sess.UserID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("cart item not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item removed from cart", nil)
}

// ClearCart empties the caller's cart.
func (cc *CartController) ClearCart(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	if err := cc.DB.Where("customer_id = ?", sess.UserID).
		Delete(&models.CartItem{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Cart cleared", nil)
}
