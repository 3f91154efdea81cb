package controllers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/velora-shop/velora/config"
	"github.com/velora-shop/velora/models"
	"github.com/velora-shop/velora/utils"
)

// DownloadInvoice generates and returns a PDF invoice for the order
func DownloadInvoice(c *gin.Context) {
	utils.LogInfo("DownloadInvoice called")

	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid order ID in invoice request: %v", err)
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("Items.Product").Where("id = ? AND user_id = ?", orderID, user.ID).First(&order).Error; err != nil {
		utils.LogError("Order not found for invoice - Order ID: %d, User ID: %d", orderID, user.ID)
		utils.NotFound(c, "Order not found")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "Velora")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "contact@velora.shop")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(50, 8, "Order ID: "+strconv.Itoa(int(order.ID)))
	pdf.Cell(60, 8, "Order Date: "+order.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(50, 8, "Status: "+order.Status)
	pdf.Ln(12)

	pdf.Cell(100, 8, "Bill to: "+order.ClientFullName)
	pdf.Ln(8)
	pdf.Cell(100, 8, order.Address+", "+order.City)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Phone: "+order.PhoneNumber)
	pdf.Ln(12)

	// Items table
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(80, 8, "Product")
	pdf.Cell(25, 8, "Qty")
	pdf.Cell(35, 8, "Unit Price")
	pdf.Cell(35, 8, "Total")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 12)
	subtotal := decimal.Zero
	for _, item := range order.Items {
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		pdf.Cell(80, 8, item.Product.Name)
		pdf.Cell(25, 8, strconv.Itoa(item.Quantity))
		pdf.Cell(35, 8, item.Price.StringFixed(2))
		pdf.Cell(35, 8, lineTotal.StringFixed(2))
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.Cell(105, 8, "")
	pdf.Cell(35, 8, "Subtotal:")
	pdf.Cell(35, 8, subtotal.StringFixed(2))
	pdf.Ln(8)
	pdf.Cell(105, 8, "")
	pdf.Cell(35, 8, "Discount:")
	pdf.Cell(35, 8, "-"+order.DiscountAmount.StringFixed(2))
	pdf.Ln(8)
	pdf.Cell(105, 8, "")
	pdf.Cell(35, 8, "Shipping:")
	pdf.Cell(35, 8, order.ShippingCost.StringFixed(2))
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(105, 8, "")
	pdf.Cell(35, 8, "Total:")
	pdf.Cell(35, 8, subtotal.Sub(order.DiscountAmount).Add(order.ShippingCost).StringFixed(2))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.LogError("Failed to generate invoice PDF for order ID: %d: %v", orderID, err)
		utils.InternalServerError(c, "Failed to generate invoice", nil)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=invoice_"+strconv.Itoa(int(order.ID))+".pdf")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
