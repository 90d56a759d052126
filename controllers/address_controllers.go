package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dimsumluna/ordering-backend/middlewares"
	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddressController struct {
	DB *gorm.DB
}

func NewAddressController(db *gorm.DB) *AddressController {
	return &AddressController{DB: db}
}

// GetAddresses -> the caller's saved addresses
func (ac *AddressController) GetAddresses(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	var addresses []models.Address
	if err := ac.DB.Where("customer_id = ?", sess.UserID).
		Order("is_default DESC, id ASC").
		Find(&addresses).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Saved addresses", addresses)
}

type addressRequest struct {
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zip_code"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	IsDefault bool   `json:"is_default"`
}

// CreateAddress. Setting the new address as default clears the
// previous default in the same transaction.
func (ac *AddressController) CreateAddress(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	address := models.Address{
		CustomerID: sess.UserID,
		Name:       req.Name,
		Line:       req.Address,
		City:       req.City,
		State:      req.State,
		ZipCode:    req.ZipCode,
		Country:    req.Country,
		Phone:      req.Phone,
		IsDefault:  req.IsDefault,
	}

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("customer_id = ?", sess.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&address).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Address saved", address)
}

// UpdateAddress -> owner only
func (ac *AddressController) UpdateAddress(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	addressID, err := strconv.ParseUint(c.Param("address_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid address_id"))
		return
	}

	var address models.Address
	if err := ac.DB.Where("id = ? AND customer_id = ?", uint(addressID), sess.UserID).
		First(&address).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	address.Name = req.Name
	address.Line = req.Address
	address.City = req.City
	address.State = req.State
	address.ZipCode = req.ZipCode
	address.Country = req.Country
	address.Phone = req.Phone

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault && !address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("customer_id = ?", sess.UserID).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		address.IsDefault = req.IsDefault
		return tx.Save(&address).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Address updated", address)
}

// DeleteAddress -> owner only
func (ac *AddressController) DeleteAddress(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)

	addressID, err := strconv.ParseUint(c.Param("address_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid address_id"))
		return
	}

	result := ac.DB.Where("id = ? AND customer_id = ?", uint(addressID), sess.UserID).
		Delete(&models.Address{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("address not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Address deleted", nil)
}
