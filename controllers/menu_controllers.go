package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dimsumluna/ordering-backend/events"
	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/repository"
	"github.com/dimsumluna/ordering-backend/services"
	"github.com/dimsumluna/ordering-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MenuController struct {
	DB    *gorm.DB
	Menus repository.MenuRepository
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db, Menus: repository.NewMenuRepository(db)}
}

// GetAllMenus -> public catalog; only available items
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	items, err := mc.Menus.List(true)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of menus", items)
}

// GetAllMenusAdmin -> full catalog including unavailable items
func (mc *MenuController) GetAllMenusAdmin(c *gin.Context) {
	items, err := mc.Menus.List(false)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of menus", items)
}

// GetMenuByID
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	menuID, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu_id"))
		return
	}

	item, err := mc.Menus.Get(uint(menuID))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu detail", item)
}

type menuRequest struct {
	Name     string  `json:"name" binding:"required"`
	Price    float64 `json:"price" binding:"required"`
	Category string  `json:"category" binding:"required"`
	Image    string  `json:"image"`
}

// CreateMenu -> staff/admin
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item := models.MenuItem{
		Name:      req.Name,
		Price:     utils.Round2(req.Price),
		Category:  req.Category,
		ImageURL:  req.Image,
		Available: true,
	}

	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := mc.Menus.Upsert(tx, &item); err != nil {
			return err
		}
		return services.EnqueueSync(tx, models.CollectionMenuItems, item.ID,
			models.SyncActionUpsert, "", item)
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastMenuUpdate(item)
	utils.RespondJSON(c, http.StatusCreated, "Menu created", item)
}

// UpdateMenu -> staff/admin
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	menuID, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu_id"))
		return
	}

	item, err := mc.Menus.Get(uint(menuID))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name     string   `json:"name"`
		Price    *float64 `json:"price"`
		Category string   `json:"category"`
		Image    string   `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != "" {
		item.Name = req.Name
	}
	if req.Price != nil {
		item.Price = utils.Round2(*req.Price)
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.Image != "" {
		item.ImageURL = req.Image
	}

	err = mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := mc.Menus.Upsert(tx, item); err != nil {
			return err
		}
		return services.EnqueueSync(tx, models.CollectionMenuItems, item.ID,
			models.SyncActionUpsert, item.RemoteKey, item)
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastMenuUpdate(*item)
	utils.RespondJSON(c, http.StatusOK, "Menu updated", item)
}

// ToggleAvailability -> staff/admin; the only catalog field customers
// observe indirectly (unavailable items cannot be added to a cart)
func (mc *MenuController) ToggleAvailability(c *gin.Context) {
	menuID, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu_id"))
		return
	}

	item, err := mc.Menus.Get(uint(menuID))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	item.Available = !item.Available

	err = mc.DB.Transaction(func(tx *gorm.DB) error {
		if err := mc.Menus.Upsert(tx, item); err != nil {
			return err
		}
		return services.EnqueueSync(tx, models.CollectionMenuItems, item.ID,
			models.SyncActionUpsert, item.RemoteKey, item)
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastMenuUpdate(*item)
	utils.RespondJSON(c, http.StatusOK, "Menu availability updated", gin.H{
		"id":        item.ID,
		"available": item.Available,
	})
}

// DeleteMenu -> staff/admin. With a known remote key the mirror entry
// is deleted by key; otherwise the item is tombstoned locally and a
// deletedMenuItems record is pushed so other consumers can drop it.
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	menuID, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu_id"))
		return
	}

	item, err := mc.Menus.Get(uint(menuID))
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	err = mc.DB.Transaction(func(tx *gorm.DB) error {
		if item.RemoteKey != "" {
			if err := mc.Menus.Delete(tx, item.ID); err != nil {
				return err
			}
			return services.EnqueueSync(tx, models.CollectionMenuItems, item.ID,
				models.SyncActionDelete, item.RemoteKey, nil)
		}

		item.Deleted = true
		if err := mc.Menus.Upsert(tx, item); err != nil {
			return err
		}
		return services.EnqueueSync(tx, models.CollectionDeletedMenuItems, item.ID,
			models.SyncActionUpsert, "", gin.H{"id": item.ID, "name": item.Name})
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastMenuUpdate(*item)
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", nil)
}
