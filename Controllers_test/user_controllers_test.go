package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dimsumluna/ordering-backend/controllers"
	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/utils"
)

func setupTestDBForUsers(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(testDSN(t)), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	if err := db.AutoMigrate(&models.Customer{}, &models.SyncOutbox{}); err != nil {
		panic(err)
	}
	return db
}

func setupUserRouter(db *gorm.DB) *gin.Engine {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	userCtrl := controllers.NewUserController(db)
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)
	return router
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	w := doJSON(router, "POST", "/register", map[string]interface{}{
		"name":     "Anna Cruz",
		"email":    "anna@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Registration is mirrored through the outbox.
	var outboxCount int64
	db.Model(&models.SyncOutbox{}).Where("collection = ?", models.CollectionUsers).Count(&outboxCount)
	assert.Equal(t, int64(1), outboxCount)

	w = doJSON(router, "POST", "/login", map[string]interface{}{
		"email":    "anna@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, models.RoleCustomer, data["user_role"])
	assert.Equal(t, "Anna Cruz", data["name"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	payload := map[string]interface{}{
		"name":     "Anna Cruz",
		"email":    "anna@example.com",
		"password": "secret123",
	}
	w := doJSON(router, "POST", "/register", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/register", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Customer{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.Customer{Name: "Anna Cruz", Email: "anna@example.com", Password: string(hashed)})

	w := doJSON(router, "POST", "/login", map[string]interface{}{
		"email":    "anna@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, "POST", "/login", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
