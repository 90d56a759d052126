package main

import (
	"context"
	"log"
	"os"

	"github.com/dimsumluna/ordering-backend/config"
	"github.com/dimsumluna/ordering-backend/database"
	"github.com/dimsumluna/ordering-backend/middlewares"
	"github.com/dimsumluna/ordering-backend/models"
	"github.com/dimsumluna/ordering-backend/router"
	"github.com/dimsumluna/ordering-backend/services"
	"github.com/dimsumluna/ordering-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func init() {
	// Load .env before anything else
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InfoLogger = logrus.New()
	utils.ErrorLogger = logrus.New()

	utils.InfoLogger.SetOutput(os.Stdout)
	utils.ErrorLogger.SetOutput(os.Stderr)

	utils.InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
	utils.ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	if err := database.Seed(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed defaults: %v", err)
	}

	// Backfill legacy payment fields before serving traffic. The pass
	// is idempotent, so rerunning at every boot is safe.
	if _, err := services.NormalizeOrders(db); err != nil {
		utils.ErrorLogger.Printf("Error normalizing orders: %v", err)
	}

	// Remote mirror + outbox drainer
	store := buildRemoteStore()
	monitor := services.NewSyncMonitor(db, store)
	monitor.Start()
	defer monitor.Stop()

	// Rate limiter (50 requests per second per IP)
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func buildRemoteStore() services.RemoteStore {
	if os.Getenv("SYNC_DISABLED") == "1" || os.Getenv("FIREBASE_DB_URL") == "" {
		utils.InfoLogger.Println("Remote sync disabled")
		return services.NewDisabledStore()
	}

	store, err := services.NewFirebaseStore(context.Background())
	if err != nil {
		// Local operation never depends on the mirror; fall back to
		// the no-op store and keep serving.
		utils.ErrorLogger.Printf("Error connecting to remote store, sync disabled: %v", err)
		return services.NewDisabledStore()
	}
	return store
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.StaffUser{},
		&models.Customer{},
		&models.MenuItem{},
		&models.Address{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.PurchaseRecord{},
		&models.PurchaseItem{},
		&models.SyncOutbox{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
