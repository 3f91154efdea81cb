package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/velora-shop/velora/models"

	"github.com/streadway/amqp"
)

const orderExchange = "order"

var eventConn *amqp.Connection

// InitEventPublisher connects to RabbitMQ if AMQP_URL is configured.
// The publisher is optional: without it order events are simply skipped.
func InitEventPublisher() error {
	url := os.Getenv("AMQP_URL")
	if url == "" {
		LogInfo("AMQP_URL not set, order events disabled")
		return nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return err
	}
	eventConn = conn
	LogInfo("Connected to RabbitMQ for order events")
	return nil
}

// CloseEventPublisher closes the RabbitMQ connection
func CloseEventPublisher() {
	if eventConn != nil {
		eventConn.Close()
		eventConn = nil
	}
}

// PublishOrderCreated publishes an order.created event. Best-effort only:
// callers log the returned error and move on, the order is already
// committed.
func PublishOrderCreated(order *models.Order) error {
	if eventConn == nil {
		return nil
	}

	ch, err := eventConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(orderExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(map[string]interface{}{
		"order_id":        order.ID,
		"user_id":         order.UserID,
		"status":          order.Status,
		"discount_amount": order.DiscountAmount.StringFixed(2),
		"shipping_cost":   order.ShippingCost.StringFixed(2),
		"created_at":      order.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	return ch.Publish(orderExchange, "order.created", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
