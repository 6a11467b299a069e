package email

import (
	"fmt"
	"net/mail"

	"github.com/example/vendor-ops/internal/domain/order"
	"gopkg.in/gomail.v2"
)

// Service handles email sending via SMTP
type Service struct {
	dialer *gomail.Dialer
	from   string
}

// NewService creates a new email service. Empty credentials send without AUTH.
func NewService(host string, port int, username, password, from string) *Service {
	return &Service{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Deliverable reports whether addr is a real recipient address rather than
// a fallback placeholder
func Deliverable(addr string) bool {
	if addr == "" || addr == order.Unknown {
		return false
	}
	_, err := mail.ParseAddress(addr)
	return err == nil
}

// SendShipmentDispatched tells the customer their order is on its way
func (s *Service) SendShipmentDispatched(to string, shipment order.ShipperOrder) error {
	subject := fmt.Sprintf("Đơn hàng %s đang được giao", ShortID(shipment.OrderID))
	return s.send(to, subject, BuildShipmentBody(shipment))
}

// SendOrderCancelled tells the customer their order was cancelled
func (s *Service) SendOrderCancelled(to string, e order.OrderCancelled) error {
	subject := fmt.Sprintf("Đơn hàng %s đã bị hủy", ShortID(e.OrderID))
	return s.send(to, subject, BuildCancellationBody(e))
}

func (s *Service) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return s.dialer.DialAndSend(m)
}

// ShortID truncates an order id for subjects
func ShortID(orderID string) string {
	if len(orderID) > 8 {
		return orderID[:8]
	}
	return orderID
}
