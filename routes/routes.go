package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/velora-shop/velora/controllers"
	"github.com/velora-shop/velora/utils"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter() *gin.Engine {
	router := gin.New()

	router.Use(utils.LoggerMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API version group
	api := router.Group("/v1")
	{
		// Public storefront routes
		api.POST("/register", controllers.Register)
		api.POST("/confirm-email", controllers.ConfirmEmail)
		api.POST("/resend-code", controllers.ResendConfirmationCode)
		api.POST("/login", controllers.Login)

		api.GET("/products", controllers.ListProducts)
		api.GET("/products/:id", controllers.GetProduct)
		api.GET("/brands", controllers.ListBrands)
		api.GET("/categories", controllers.ListCategories)

		api.GET("/packs", controllers.ListPacks)
		api.GET("/packs/:id", controllers.GetPack)
		api.GET("/custom-packs", controllers.ListCustomPacks)
		api.GET("/custom-packs/:id", controllers.GetCustomPack)

		api.GET("/coupons/:code/validate", controllers.ValidateCouponCode)

		api.GET("/announcement", controllers.GetAnnouncement)
		api.GET("/countdown", controllers.GetCountdown)
		api.GET("/visitor-count", controllers.GetVisitorCountSetting)
		api.GET("/settings/:key", controllers.GetSetting)

		api.POST("/guest/checkout", controllers.GuestPlaceOrder)

		initUserRoutes(api)
		initAdminRoutes(api)
	}

	return router
}
