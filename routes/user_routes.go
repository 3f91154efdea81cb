package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/velora-shop/velora/controllers"
	"github.com/velora-shop/velora/middleware"
)

// initUserRoutes initializes routes that require an authenticated user
func initUserRoutes(router *gin.RouterGroup) {
	user := router.Group("")
	user.Use(middleware.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)

		// Cart
		user.GET("/cart", controllers.GetCart)
		user.POST("/cart", controllers.AddToCart)
		user.PUT("/cart/:id", controllers.UpdateCartItem)
		user.DELETE("/cart/:id", controllers.RemoveCartItem)
		user.DELETE("/cart", controllers.ClearCart)

		// Checkout and orders
		user.POST("/checkout", controllers.PlaceOrder)
		user.GET("/orders", controllers.GetUserOrders)
		user.GET("/orders/:id", controllers.GetOrderDetails)
		user.GET("/orders/:id/invoice", controllers.DownloadInvoice)
	}
}
