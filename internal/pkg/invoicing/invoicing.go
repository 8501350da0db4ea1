// internal/pkg/invoicing/invoicing.go
package invoicing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document kinds issued over an order's lifetime: the proforma asks for
// the deposit, the tax document receipts it, the final invoice settles the
// remainder.
const (
	PaymentTypeCash     = "cash"
	PaymentTypeTransfer = "transfer"
)

// DocumentItem is one invoiced line.
type DocumentItem struct {
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	TaxRatePct decimal.Decimal // Percentage, e.g. 21
}

// OrderDocument carries the order fields the invoicing provider needs.
// The order code doubles as the variable symbol on every document.
type OrderDocument struct {
	OrderCode      string
	Currency       string
	CustomerName   string
	CustomerEmail  string
	CustomerStreet string
	CustomerCity   string
	CustomerZip    string
	CustomerCountry string
	Items          []DocumentItem
	TotalPrice     decimal.Decimal
	DepositAmount  *decimal.Decimal
	PaymentType    string
	IssuedAt       time.Time
}

// Service is the external invoicing collaborator. Each call may fail
// independently of order persistence; callers decide whether a failure is
// fatal.
type Service interface {
	IssueProforma(doc *OrderDocument) (string, error)
	IssueDepositTaxDocument(doc *OrderDocument) (string, error)
	IssueFinalInvoice(doc *OrderDocument) (string, error)
	MarkPaid(invoiceID string, amount decimal.Decimal, date time.Time, paymentType, orderCode string) error
}

// PaymentTypeForMethod maps an order payment method onto the payment type
// the invoicing provider understands.
func PaymentTypeForMethod(method string) string {
	switch method {
	case "CASH_ON_DELIVERY":
		return PaymentTypeCash
	case "BANK_TRANSFER":
		return PaymentTypeTransfer
	default:
		return PaymentTypeTransfer
	}
}
