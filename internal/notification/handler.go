// Package notification turns domain events into email.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/atelier-shop/internal/email"
	"github.com/example/atelier-shop/internal/infrastructure/kafka"
	"github.com/example/atelier-shop/internal/inventory"
	"github.com/example/atelier-shop/internal/order"
)

// Handler consumes shop events and sends the matching notifications:
// order confirmations to customers, stock alerts to the store inbox.
type Handler struct {
	emailService *email.Service
	alertEmail   string
	currency     string
}

func NewHandler(emailService *email.Service, alertEmail, currency string) *Handler {
	return &Handler{
		emailService: emailService,
		alertEmail:   alertEmail,
		currency:     currency,
	}
}

// HandleEvent processes one event from Kafka. Unknown event types are
// skipped; handler errors are logged by the consumer and not retried.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event kafka.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	switch event.Type {
	case order.EventOrderPlaced:
		return h.handleOrderPlaced(event.Data)
	case inventory.EventStockMovementRecorded:
		return h.handleStockMovement(event.Data)
	}
	return nil
}

func (h *Handler) handleOrderPlaced(data json.RawMessage) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced event: %v", err)
		return err
	}
	if e.Email == "" {
		log.Printf("[Notifier] Order %s has no customer email, skipping confirmation", e.OrderID)
		return nil
	}

	lines := make([]email.OrderLine, len(e.Items))
	for i, item := range e.Items {
		lines[i] = email.OrderLine{
			ProductID: item.ProductID,
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	if err := h.emailService.SendOrderConfirmation(e.Email, e.OrderID, h.currency, e.Total, lines); err != nil {
		log.Printf("[Notifier] Failed to send confirmation to %s: %v", e.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation sent to %s for order %s", e.Email, e.OrderID)
	return nil
}

func (h *Handler) handleStockMovement(data json.RawMessage) error {
	var e inventory.StockMovementRecorded
	if err := json.Unmarshal(data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal StockMovementRecorded event: %v", err)
		return err
	}

	// Only alert when stock falls to a degraded status.
	if e.Status == inventory.StatusInStock {
		return nil
	}
	if h.alertEmail == "" {
		return nil
	}

	outOfStock := e.Status == inventory.StatusOutOfStock
	if err := h.emailService.SendLowStockAlert(h.alertEmail, e.ProductName, e.StockQuantity, outOfStock); err != nil {
		log.Printf("[Notifier] Failed to send stock alert for product %s: %v", e.ProductID, err)
		return err
	}

	log.Printf("[Notifier] Stock alert sent for product %s (%s, %d left)", e.ProductID, e.Status, e.StockQuantity)
	return nil
}
