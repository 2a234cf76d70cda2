package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/controllers"
	"github.com/yeremiapane/restaurant-pos/middlewares"
	"github.com/yeremiapane/restaurant-pos/models"
)

// SetupRouter mendaftarkan semua route backend. Middleware tambahan (mis.
// rate limiter global) dipasang sebelum route didaftarkan.
func SetupRouter(db *gorm.DB, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(extra...)

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	categoryCtrl := controllers.NewCategoryController(db)
	productCtrl := controllers.NewProductController(db)
	orderCtrl := controllers.NewOrderController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Katalog untuk terminal POS
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/products", productCtrl.GetAllProducts)
	r.GET("/products/:product_id", productCtrl.GetProductByID)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/users", userCtrl.GetAllUsers)

	// TABLE
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	auth.PATCH("/tables/:table_id/clean", tableCtrl.MarkTableClean)
	auth.GET("/dashboard/stats", tableCtrl.GetDashboardStats)

	tableAdmin := auth.Group("/tables")
	tableAdmin.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		tableAdmin.POST("", tableCtrl.CreateTable)
		tableAdmin.DELETE("/:table_id", tableCtrl.DeleteTable)
	}

	// ORDERS
	auth.POST("/orders", middlewares.RequireRoles(models.RoleCashier, models.RoleStaff), orderCtrl.SubmitOrder)
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id/status", middlewares.RequireRoles(models.RoleChef, models.RoleStaff, models.RoleCashier), orderCtrl.UpdateOrderStatus)

	// CATALOG (admin only)
	catalog := auth.Group("/")
	catalog.Use(middlewares.RequireRoles(models.RoleAdmin))
	{
		catalog.POST("/categories", categoryCtrl.CreateCategory)
		catalog.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
		catalog.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

		catalog.GET("/products", productCtrl.GetAllProducts)
		catalog.POST("/products", productCtrl.CreateProduct)
		catalog.PUT("/products/:product_id", productCtrl.UpdateProduct)
		catalog.DELETE("/products/:product_id", productCtrl.DeleteProduct)
	}

	// WebSocket endpoint dengan middleware khusus
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.KDSHandler)
	}

	return r
}
