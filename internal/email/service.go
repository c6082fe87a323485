package email

import (
	"fmt"
	"net/smtp"

	"github.com/shopspring/decimal"
)

// Service sends transactional email via SMTP.
type Service struct {
	host string
	port string
	from string
}

func NewService(host, port, from string) *Service {
	return &Service{host: host, port: port, from: from}
}

// SendOrderConfirmation sends the order confirmation to the customer.
func (s *Service) SendOrderConfirmation(to, orderID, currency string, total decimal.Decimal, items []OrderLine) error {
	shortID := orderID
	if len(orderID) > 8 {
		shortID = orderID[:8]
	}
	subject := fmt.Sprintf("Order confirmation — %s", shortID)
	body := BuildOrderConfirmationBody(orderID, currency, total, items)
	return s.send(to, subject, body)
}

// SendLowStockAlert notifies the store inbox that a product dropped to
// or below its low-stock threshold.
func (s *Service) SendLowStockAlert(to, productName string, stockQuantity int, outOfStock bool) error {
	subject := fmt.Sprintf("Low stock: %s", productName)
	if outOfStock {
		subject = fmt.Sprintf("Out of stock: %s", productName)
	}
	body := BuildLowStockAlertBody(productName, stockQuantity, outOfStock)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
