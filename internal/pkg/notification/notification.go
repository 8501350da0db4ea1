// internal/pkg/notification/notification.go
package notification

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OrderInfo carries the order fields a notification needs.
type OrderInfo struct {
	OrderCode     string
	CustomerName  string
	CustomerEmail string
	Currency      string
	TotalPrice    decimal.Decimal
}

// Notifier delivers customer-facing order notifications. Failures are
// reported to the caller, who treats them as non-fatal once the order is
// persisted.
type Notifier interface {
	SendOrderConfirmation(info OrderInfo) error
	SendStatusUpdate(info OrderInfo, newStatus string) error
}

// LogNotifier records notifications in the application log. The real
// delivery channel is handled outside this service.
type LogNotifier struct {
	log *logrus.Logger
}

// NewLogNotifier creates a log backed notifier
func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// SendOrderConfirmation logs the order confirmation event.
func (n *LogNotifier) SendOrderConfirmation(info OrderInfo) error {
	n.log.WithFields(logrus.Fields{
		"order_code": info.OrderCode,
		"email":      info.CustomerEmail,
		"total":      info.TotalPrice.StringFixed(2),
		"currency":   info.Currency,
	}).Info("order confirmation notification")
	return nil
}

// SendStatusUpdate logs the status update event.
func (n *LogNotifier) SendStatusUpdate(info OrderInfo, newStatus string) error {
	n.log.WithFields(logrus.Fields{
		"order_code": info.OrderCode,
		"email":      info.CustomerEmail,
		"status":     newStatus,
	}).Info("order status notification")
	return nil
}
