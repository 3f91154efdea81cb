package utils

import (
	"fmt"
	"os"
	"strconv"

	"github.com/velora-shop/velora/models"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func emailConfigFromEnv() EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}
	return EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

// SendEmail sends an HTML email using SMTP
func SendEmail(to, subject, body string) error {
	config := emailConfigFromEnv()
	if config.Host == "" {
		return fmt.Errorf("smtp is not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}

// SendConfirmationCode sends an email confirmation code to a new user
func SendConfirmationCode(to, code string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to Velora!</h2>
		<p>Thank you for registering. Please use the following code to confirm your email address:</p>
		<h1 style="color: #d96c8a; font-size: 32px; letter-spacing: 5px;">%s</h1>
		<p>This code will expire in 24 hours.</p>
		<p>If you didn't create an account, please ignore this email.</p>
	`, code)

	return SendEmail(to, "Confirm your Velora email address", body)
}

// SendOrderConfirmation emails the order summary to the customer. Callers
// treat a failure here as non-fatal: the order stays committed.
func SendOrderConfirmation(to string, order *models.Order) error {
	itemRows := ""
	for _, item := range order.Items {
		itemRows += fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%s</td></tr>",
			item.Product.Name, item.Quantity, item.Price.StringFixed(2))
	}

	body := fmt.Sprintf(`
		<h2>Thank you for your order!</h2>
		<p>Order #%d has been received and is being prepared.</p>
		<table border="1" cellpadding="6" cellspacing="0">
			<tr><th>Product</th><th>Quantity</th><th>Unit Price</th></tr>
			%s
		</table>
		<p>Discount: %s</p>
		<p>Shipping: %s</p>
		<p>We will deliver to: %s, %s</p>
	`, order.ID, itemRows, order.DiscountAmount.StringFixed(2), order.ShippingCost.StringFixed(2), order.Address, order.City)

	return SendEmail(to, fmt.Sprintf("Your Velora order #%d", order.ID), body)
}
