package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"github.com/velora-shop/velora/config"
	"github.com/velora-shop/velora/models"
	"github.com/velora-shop/velora/utils"
)

// AdminListOrders lists orders for the admin panel. Soft-deleted orders
// are excluded; filter by status with ?status=.
func AdminListOrders(c *gin.Context) {
	utils.LogInfo("AdminListOrders called")

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Order{}).Where("deleted = ?", false)

	if status := strings.ToUpper(c.Query("status")); status != "" {
		if !models.ValidOrderStatus(status) {
			utils.BadRequest(c, "Invalid status", gin.H{
				"valid_statuses": []string{
					models.OrderStatusPreparing,
					models.OrderStatusDelivering,
					models.OrderStatusDelivered,
					models.OrderStatusCanceled,
				},
			})
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	var orders []models.Order
	if err := query.Preload("Items.Product").Preload("User").Preload("Coupon").
		Order("created_at desc").
		Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	utils.SuccessWithPagination(c, "Orders retrieved successfully", orders, total, pagination.Page, pagination.Limit)
}

// AdminUpdateOrderStatus updates the status of an order
func AdminUpdateOrderStatus(c *gin.Context) {
	utils.LogInfo("AdminUpdateOrderStatus called")

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid order ID: %v", err)
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid status in request: %v", err)
		utils.BadRequest(c, "Status is required", nil)
		return
	}

	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !models.ValidOrderStatus(status) {
		utils.LogError("Invalid status requested: %s", req.Status)
		utils.BadRequest(c, "Invalid status", gin.H{
			"valid_statuses": []string{
				models.OrderStatusPreparing,
				models.OrderStatusDelivering,
				models.OrderStatusDelivered,
				models.OrderStatusCanceled,
			},
		})
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		utils.LogError("Order not found: %d", orderID)
		utils.NotFound(c, "Order not found")
		return
	}

	if err := config.DB.Model(&order).Update("status", status).Error; err != nil {
		utils.LogError("Failed to update status for order ID: %d: %v", orderID, err)
		utils.InternalServerError(c, "Failed to update order status", nil)
		return
	}
	utils.LogInfo("Updated order ID: %d to status: %s", orderID, status)

	utils.Success(c, "Order status updated successfully", gin.H{
		"order_id": order.ID,
		"status":   status,
	})
}

// AdminSoftDeleteOrder marks an order deleted without removing it
func AdminSoftDeleteOrder(c *gin.Context) {
	setOrderDeleted(c, true, "Order deleted successfully")
}

// AdminRestoreOrder restores a soft-deleted order
func AdminRestoreOrder(c *gin.Context) {
	setOrderDeleted(c, false, "Order restored successfully")
}

func setOrderDeleted(c *gin.Context, deleted bool, message string) {
	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.First(&order, orderID).Error; err != nil {
		utils.LogError("Order not found: %d", orderID)
		utils.NotFound(c, "Order not found")
		return
	}

	if err := config.DB.Model(&order).Update("deleted", deleted).Error; err != nil {
		utils.LogError("Failed to update deleted flag for order ID: %d: %v", orderID, err)
		utils.InternalServerError(c, "Failed to update order", nil)
		return
	}
	utils.LogInfo("Set deleted=%t for order ID: %d", deleted, orderID)

	utils.Success(c, message, gin.H{"order_id": order.ID})
}

// AdminListDeletedOrders lists soft-deleted orders
func AdminListDeletedOrders(c *gin.Context) {
	utils.LogInfo("AdminListDeletedOrders called")

	var orders []models.Order
	if err := config.DB.Preload("Items.Product").Preload("User").
		Where("deleted = ?", true).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch deleted orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch deleted orders", nil)
		return
	}

	utils.Success(c, "Deleted orders retrieved successfully", orders)
}

// AdminDeleteAllOrders permanently removes every order and its items
func AdminDeleteAllOrders(c *gin.Context) {
	utils.LogInfo("AdminDeleteAllOrders called")

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to start transaction", nil)
		return
	}

	if err := tx.Where("1 = 1").Delete(&models.OrderItem{}).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to delete order items: %v", err)
		utils.InternalServerError(c, "Failed to delete orders", nil)
		return
	}
	if err := tx.Where("1 = 1").Delete(&models.Order{}).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to delete orders: %v", err)
		utils.InternalServerError(c, "Failed to delete orders", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", nil)
		return
	}
	utils.LogInfo("Deleted all orders")

	utils.Success(c, "All orders deleted", nil)
}

// AdminExportOrdersCSV streams all active orders as a CSV file
func AdminExportOrdersCSV(c *gin.Context) {
	utils.LogInfo("AdminExportOrdersCSV called")

	var orders []models.Order
	if err := config.DB.Where("deleted = ?", false).Order("created_at asc").Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for CSV export: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Order ID", "Customer Name", "City", "Address", "Phone Number", "Status", "Created At"})
	for _, order := range orders {
		w.Write([]string{
			strconv.Itoa(int(order.ID)),
			order.ClientFullName,
			order.City,
			order.Address,
			order.PhoneNumber,
			order.Status,
			order.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()

	c.Header("Content-Disposition", "attachment; filename=orders.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// AdminExportOrdersExcel streams all active orders as an Excel workbook
func AdminExportOrdersExcel(c *gin.Context) {
	utils.LogInfo("AdminExportOrdersExcel called")

	var orders []models.Order
	if err := config.DB.Preload("Items").Where("deleted = ?", false).Order("created_at asc").Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders for Excel export: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", nil)
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to generate export", nil)
		return
	}

	header := sheet.AddRow()
	for _, title := range []string{"Order ID", "Customer Name", "City", "Status", "Items", "Discount", "Shipping", "Created At"} {
		cell := header.AddCell()
		cell.Value = title
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(order.ID))
		row.AddCell().Value = order.ClientFullName
		row.AddCell().Value = order.City
		row.AddCell().Value = order.Status
		row.AddCell().SetInt(len(order.Items))
		row.AddCell().Value = order.DiscountAmount.StringFixed(2)
		row.AddCell().Value = order.ShippingCost.StringFixed(2)
		row.AddCell().Value = order.CreatedAt.Format("2006-01-02 15:04:05")
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to generate export", nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=orders_%s.xlsx", time.Now().Format("2006-01-02")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
