package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/velora-shop/velora/controllers"
	"github.com/velora-shop/velora/middleware"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		// Category management
		admin.POST("/categories", controllers.CreateCategory)
		admin.PUT("/categories/:id", controllers.UpdateCategory)
		admin.DELETE("/categories/:id", controllers.DeleteCategory)

		// Product management
		admin.POST("/products", controllers.CreateProduct)
		admin.PUT("/products/:id", controllers.UpdateProduct)
		admin.DELETE("/products/:id", controllers.DeleteProduct)

		// Coupon management
		admin.POST("/coupons", controllers.CreateCoupon)
		admin.GET("/coupons", controllers.ListCoupons)
		admin.PUT("/coupons/:id", controllers.UpdateCoupon)
		admin.DELETE("/coupons/:id", controllers.DeleteCoupon)
		admin.GET("/coupons/statistics", controllers.GetCouponUsageStatistics)

		// Pack management
		admin.POST("/packs", controllers.CreatePack)
		admin.DELETE("/packs/:id", controllers.DeletePack)
		admin.POST("/custom-packs", controllers.CreateCustomPack)
		admin.PUT("/custom-packs/:id", controllers.UpdateCustomPack)
		admin.DELETE("/custom-packs/:id", controllers.DeleteCustomPack)

		// Order management
		admin.GET("/orders", controllers.AdminListOrders)
		admin.GET("/orders/deleted", controllers.AdminListDeletedOrders)
		admin.PATCH("/orders/:id/status", controllers.AdminUpdateOrderStatus)
		admin.DELETE("/orders/:id", controllers.AdminSoftDeleteOrder)
		admin.PATCH("/orders/:id/restore", controllers.AdminRestoreOrder)
		admin.DELETE("/orders", controllers.AdminDeleteAllOrders)
		admin.GET("/orders/export/csv", controllers.AdminExportOrdersCSV)
		admin.GET("/orders/export/excel", controllers.AdminExportOrdersExcel)

		// Site settings
		admin.PUT("/announcement", controllers.UpdateAnnouncement)
		admin.PUT("/countdown", controllers.SaveCountdown)
		admin.PUT("/visitor-count", controllers.UpdateVisitorCountSetting)
		admin.PUT("/settings/:key", controllers.PutSetting)
	}
}
