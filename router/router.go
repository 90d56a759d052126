package router

import (
	"github.com/dimsumluna/ordering-backend/controllers"
	"github.com/dimsumluna/ordering-backend/middlewares"
	"github.com/dimsumluna/ordering-backend/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	staffCtrl := controllers.NewStaffController(db)
	menuCtrl := controllers.NewMenuController(db)
	addressCtrl := controllers.NewAddressController(db)
	cartCtrl := controllers.NewCartController(db)
	orderCtrl := controllers.NewOrderController(db)
	adminCtrl := controllers.NewAdminController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Stricter rate limit on credential endpoints
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
		public.POST("/staff/login", staffCtrl.Login)
	}

	// Browse the catalog without an account
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuByID)

	// ----------------------------------------------------------------
	//                      CUSTOMER ROUTES
	// ----------------------------------------------------------------
	customer := r.Group("/")
	customer.Use(middlewares.EnhancedAuthMiddleware())
	customer.Use(middlewares.RequireRole(models.RoleCustomer))
	{
		customer.POST("/logout", userCtrl.Logout)
		customer.GET("/profile", userCtrl.GetProfile)

		customer.GET("/cart", cartCtrl.GetCart)
		customer.POST("/cart", cartCtrl.AddToCart)
		customer.PATCH("/cart/:item_id", cartCtrl.UpdateQuantity)
		customer.DELETE("/cart/:item_id", cartCtrl.RemoveItem)
		customer.DELETE("/cart", cartCtrl.ClearCart)

		customer.GET("/addresses", addressCtrl.GetAddresses)
		customer.POST("/addresses", addressCtrl.CreateAddress)
		customer.PATCH("/addresses/:address_id", addressCtrl.UpdateAddress)
		customer.DELETE("/addresses/:address_id", addressCtrl.DeleteAddress)

		customer.POST("/checkout", orderCtrl.Checkout)
		customer.GET("/orders", orderCtrl.GetMyOrders)
		customer.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		customer.POST("/orders/:order_id/cancel", orderCtrl.CancelByCustomer)
		customer.POST("/orders/:order_id/confirm", orderCtrl.ConfirmReceived)
		customer.GET("/purchases", orderCtrl.GetPurchaseHistory)
	}

	// ----------------------------------------------------------------
	//                      STAFF / ADMIN ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.EnhancedAuthMiddleware())
	auth.Use(middlewares.RequireRole(models.RoleStaff))
	{
		auth.POST("/logout", userCtrl.Logout)

		// ORDERS
		auth.GET("/orders", orderCtrl.GetAllOrders)
		auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateStatus)
		auth.POST("/orders/:order_id/cancel", orderCtrl.CancelByStaff)
		auth.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
		auth.POST("/orders/normalize", orderCtrl.Normalize)

		// MENUS
		auth.GET("/menus", menuCtrl.GetAllMenusAdmin)
		auth.POST("/menus", menuCtrl.CreateMenu)
		auth.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
		auth.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
		auth.PATCH("/menus/:menu_id/availability", menuCtrl.ToggleAvailability)
		auth.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

		// STAFF ACCOUNTS (admin only, checked in handlers)
		auth.GET("/staff", staffCtrl.GetAllStaff)
		auth.POST("/staff", staffCtrl.CreateStaff)
		auth.PATCH("/staff/:staff_id", staffCtrl.UpdateStaff)
		auth.DELETE("/staff/:staff_id", staffCtrl.DeleteStaff)

		// DASHBOARD
		auth.GET("/dashboard/stats", adminCtrl.GetDashboardStats)
		auth.GET("/analytics", adminCtrl.GetAnalytics)
		auth.GET("/reports/sales", adminCtrl.GetSalesReport)
	}

	// WebSocket endpoint with its own token middleware
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.EventsHandler)
	}

	return r
}
