package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dimsumluna/ordering-backend/middlewares"
	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type StaffController struct {
	DB *gorm.DB
}

func NewStaffController(db *gorm.DB) *StaffController {
	return &StaffController{DB: db}
}

// Login staff/admin -> return JWT
func (sc *StaffController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var staff models.StaffUser
	if err := sc.DB.Where("email = ?", input.Email).First(&staff).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(staff.ID, staff.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Staff login: %s (role=%s)", staff.Email, staff.Role)

	c.JSON(http.StatusOK, gin.H{
		"status":  true,
		"message": "Login successful",
		"data": gin.H{
			"token":     token,
			"user_role": staff.Role,
			"name":      staff.Name,
		},
	})
}

// GetAllStaff -> admin only
func (sc *StaffController) GetAllStaff(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)
	if sess.Role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var staff []models.StaffUser
	if err := sc.DB.Find(&staff).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All staff accounts", staff)
}

// CreateStaff -> admin only; duplicate emails rejected
func (sc *StaffController) CreateStaff(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)
	if sess.Role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	type request struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role" binding:"required"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Role != models.RoleStaff && req.Role != models.RoleAdmin {
		utils.RespondError(c, http.StatusBadRequest, errors.New("role must be staff or admin"))
		return
	}

	var existing models.StaffUser
	if err := sc.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("a staff account with this email already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	staff := models.StaffUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
	}
	if err := sc.DB.Create(&staff).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Staff account created", gin.H{
		"staff_id": staff.ID,
	})
}

// UpdateStaff -> admin only
func (sc *StaffController) UpdateStaff(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)
	if sess.Role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	staffID, err := strconv.ParseUint(c.Param("staff_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid staff_id"))
		return
	}

	var staff models.StaffUser
	if err := sc.DB.First(&staff, uint(staffID)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != "" {
		staff.Name = req.Name
	}
	if req.Role != "" {
		if req.Role != models.RoleStaff && req.Role != models.RoleAdmin {
			utils.RespondError(c, http.StatusBadRequest, errors.New("role must be staff or admin"))
			return
		}
		staff.Role = req.Role
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		staff.Password = string(hashed)
	}

	if err := sc.DB.Save(&staff).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Staff account updated", staff)
}

// DeleteStaff -> admin only; deleting your own account is refused
func (sc *StaffController) DeleteStaff(c *gin.Context) {
	sess, _ := middlewares.SessionFrom(c)
	if sess.Role != models.RoleAdmin {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	staffID, err := strconv.ParseUint(c.Param("staff_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid staff_id"))
		return
	}

	if uint(staffID) == sess.UserID {
		utils.RespondError(c, http.StatusBadRequest, errors.New("you cannot delete your own account"))
		return
	}

	result := sc.DB.Delete(&models.StaffUser{}, uint(staffID))
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("staff account not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Staff account deleted", nil)
}
