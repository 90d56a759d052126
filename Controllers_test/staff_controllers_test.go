package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dimsumluna/ordering-backend/controllers"
	"github.com/dimsumluna/ordering-backend/middlewares"
	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/utils"
)

func setupTestDBForStaff(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(testDSN(t)), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.StaffUser{}); err != nil {
		panic(err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	db.Create(&models.StaffUser{Name: "Administrator", Email: "admin@dimsum.com", Password: string(hashed), Role: models.RoleAdmin})
	db.Create(&models.StaffUser{Name: "Staff Member", Email: "staff@dimsum.com", Password: string(hashed), Role: models.RoleStaff})
	return db
}

func setupStaffRouter(db *gorm.DB, sess *middlewares.Session) *gin.Engine {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		middlewares.SetSession(c, *sess)
	})

	staffCtrl := controllers.NewStaffController(db)
	router.POST("/staff/login", staffCtrl.Login)
	router.GET("/admin/staff", staffCtrl.GetAllStaff)
	router.POST("/admin/staff", staffCtrl.CreateStaff)
	router.PATCH("/admin/staff/:staff_id", staffCtrl.UpdateStaff)
	router.DELETE("/admin/staff/:staff_id", staffCtrl.DeleteStaff)
	return router
}

func TestStaffLoginReturnsRole(t *testing.T) {
	db := setupTestDBForStaff(t)
	sess := &middlewares.Session{}
	router := setupStaffRouter(db, sess)

	w := doJSON(router, "POST", "/staff/login", map[string]interface{}{
		"email":    "admin@dimsum.com",
		"password": "admin123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	data := responseData(t, w)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, models.RoleAdmin, data["user_role"])
}

func TestStaffManagementIsAdminOnly(t *testing.T) {
	db := setupTestDBForStaff(t)
	sess := &middlewares.Session{UserID: 2, Role: models.RoleStaff}
	router := setupStaffRouter(db, sess)

	w := doJSON(router, "GET", "/admin/staff", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, "POST", "/admin/staff", map[string]interface{}{
		"name": "Eve", "email": "eve@dimsum.com", "password": "pw123456", "role": "staff",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, "DELETE", "/admin/staff/1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateStaffValidation(t *testing.T) {
	db := setupTestDBForStaff(t)
	sess := &middlewares.Session{UserID: 1, Role: models.RoleAdmin}
	router := setupStaffRouter(db, sess)

	// Duplicate email.
	w := doJSON(router, "POST", "/admin/staff", map[string]interface{}{
		"name": "Copy", "email": "staff@dimsum.com", "password": "pw123456", "role": "staff",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Customers are not staff accounts.
	w = doJSON(router, "POST", "/admin/staff", map[string]interface{}{
		"name": "Eve", "email": "eve@dimsum.com", "password": "pw123456", "role": "customer",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "POST", "/admin/staff", map[string]interface{}{
		"name": "Eve", "email": "eve@dimsum.com", "password": "pw123456", "role": "staff",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	db.Model(&models.StaffUser{}).Count(&count)
	assert.Equal(t, int64(3), count)
}

func TestDeleteStaffGuards(t *testing.T) {
	db := setupTestDBForStaff(t)
	sess := &middlewares.Session{UserID: 1, Role: models.RoleAdmin}
	router := setupStaffRouter(db, sess)

	// Self-delete is refused.
	w := doJSON(router, "DELETE", "/admin/staff/1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, "DELETE", "/admin/staff/2", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "DELETE", "/admin/staff/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
