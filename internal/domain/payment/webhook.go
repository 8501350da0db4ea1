// internal/domain/payment/webhook.go
package payment

import (
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/eshop-backend/internal/domain/order"
	"github.com/your-org/eshop-backend/internal/errs"
)

// Provider webhook events this service reconciles.
const (
	EventProformaPaid = "proforma.paid"
	EventInvoicePaid  = "invoice.paid"
)

// Payment date formats the provider is known to send.
var paymentDateLayouts = []string{"2006-01-02", "2.1.2006"}

// notice is a provider notification normalized to the fields reconciliation
// needs. The variable symbol is the order code; documentID is the
// provider-side id of the invoice or proforma the payment settled.
type notice struct {
	orderCode  string
	amount     decimal.Decimal
	paidAt     time.Time
	documentID int64
	proforma   bool
}

// transition is the state change a notification produced.
type transition int

const (
	transitionNone transition = iota
	transitionDeposit
	transitionFull
)

// webhookPayment is the payment block common to the payload shapes the
// provider sends. Different event versions nest it under different keys.
type webhookPayment struct {
	VariableSymbol string `json:"variable_symbol"`
	Amount         string `json:"amount"`
	PaymentDate    string `json:"date"`
	InvoiceID      int64  `json:"invoice_id"`
	ProformaID     int64  `json:"proforma_id"`
}

type webhookPayload struct {
	InvoicePayment  *webhookPayment `json:"InvoicePayment"`
	ProformaPayment *webhookPayment `json:"ProformaPayment"`
	Invoice         *struct {
		ID             int64  `json:"id"`
		VariableSymbol string `json:"variable"`
		AmountPaid     string `json:"amount_paid"`
		PaidDate       string `json:"paid_date"`
	} `json:"Invoice"`
}

// ProcessNotification reconciles an inbound payment notification against
// the order ledger. It never fails toward the caller: the provider retries
// on non-200 responses and a malformed or unmatchable notification would
// retry forever. Anything that cannot be applied is logged and dropped;
// duplicate deliveries of an already applied payment are silent no-ops.
func (s *Service) ProcessNotification(event string, rawPayload []byte) {
	n, ok := s.normalize(event, rawPayload)
	if !ok {
		return
	}

	var applied *order.Order
	var tr transition
	err := s.repo.UpdateLocked(n.orderCode, func(o *order.Order) error {
		res, reason := s.apply(o, n)
		if res == transitionNone {
			if reason != "" {
				s.drop(n, reason)
			}
			return errDropped
		}
		tr = res
		applied = o
		return nil
	})
	if err != nil {
		if errs.IsNotFound(err) {
			s.drop(n, "no order matches the variable symbol")
		} else if !errors.Is(err, errDropped) {
			s.log.WithFields(logrus.Fields{
				"order_code": n.orderCode,
				"error":      err.Error(),
			}).Error("failed to apply payment notification")
		}
		return
	}

	switch tr {
	case transitionDeposit:
		s.runDepositPaidSteps(applied, n.paidAt)
	case transitionFull:
		s.runFullyPaidSteps(applied, n.amount, n.paidAt)
	}
}

// DroppedCount reports how many notifications were dropped without being
// applied. Exposed for operational monitoring.
func (s *Service) DroppedCount() int64 {
	return atomic.LoadInt64(&s.dropped)
}

// Private helper methods

// errDropped aborts the locked update without logging an error; the drop
// diagnostic was already emitted inside the transaction callback.
var errDropped = errors.New("notification dropped")

// apply attempts the state transition the notice asks for. The amount
// decides which transition applies, not the event shape: a payment of the
// full outstanding balance settles the order from any non-final status,
// and a payment matching the deposit settles the deposit even when it
// arrives on an invoice event (paid against the tax document rather than
// the proforma). It returns transitionNone with an empty reason for silent
// duplicate no-ops and with a reason for notifications that must be logged
// and dropped.
func (s *Service) apply(o *order.Order, n notice) (transition, string) {
	depositMatches := o.DepositAmount != nil && n.amount.Equal(*o.DepositAmount)

	if n.proforma {
		switch o.PaymentStatus {
		case order.PaymentStatusDepositPaid, order.PaymentStatusPaid:
			// duplicate delivery of an applied deposit payment
			return transitionNone, ""
		case order.PaymentStatusAwaitingDeposit:
		default:
			return transitionNone, "order does not expect a deposit payment"
		}
		if !depositMatches {
			return transitionNone, "amount does not match the expected deposit"
		}
		recordDepositPaid(o, n.paidAt)
		return transitionDeposit, ""
	}

	switch o.PaymentStatus {
	case order.PaymentStatusPaid:
		// duplicate delivery of an applied full payment
		return transitionNone, ""
	case order.PaymentStatusPending, order.PaymentStatusAwaitingDeposit, order.PaymentStatusDepositPaid:
	default:
		return transitionNone, "order does not expect a payment"
	}

	if n.amount.Equal(o.OutstandingBalance()) {
		o.PaymentStatus = order.PaymentStatusPaid
		paidAt := n.paidAt
		o.PaymentDate = &paidAt
		if o.HasDeposit() && o.DepositPaidDate == nil {
			o.DepositPaidDate = &paidAt
		}
		return transitionFull, ""
	}

	if depositMatches && o.PaymentStatus == order.PaymentStatusAwaitingDeposit {
		recordDepositPaid(o, n.paidAt)
		return transitionDeposit, ""
	}

	return transitionNone, "amount matches neither the outstanding balance nor the deposit"
}

func recordDepositPaid(o *order.Order, paidAt time.Time) {
	o.PaymentStatus = order.PaymentStatusDepositPaid
	t := paidAt
	o.DepositPaidDate = &t
}

// normalize extracts the reconciliation fields from whichever payload
// shape the provider sent. Unknown events and payloads missing the
// variable symbol, amount, payment date or document id are dropped here.
func (s *Service) normalize(event string, rawPayload []byte) (notice, bool) {
	if event != EventProformaPaid && event != EventInvoicePaid {
		s.drop(notice{}, "unknown event "+event)
		return notice{}, false
	}

	var payload webhookPayload
	if err := json.Unmarshal(rawPayload, &payload); err != nil {
		s.drop(notice{}, "payload is not valid JSON")
		return notice{}, false
	}

	var code, amount, date string
	var documentID int64
	switch {
	case payload.ProformaPayment != nil:
		code = payload.ProformaPayment.VariableSymbol
		amount = payload.ProformaPayment.Amount
		date = payload.ProformaPayment.PaymentDate
		documentID = payload.ProformaPayment.ProformaID
	case payload.InvoicePayment != nil:
		code = payload.InvoicePayment.VariableSymbol
		amount = payload.InvoicePayment.Amount
		date = payload.InvoicePayment.PaymentDate
		documentID = payload.InvoicePayment.InvoiceID
	case payload.Invoice != nil:
		code = payload.Invoice.VariableSymbol
		amount = payload.Invoice.AmountPaid
		date = payload.Invoice.PaidDate
		documentID = payload.Invoice.ID
	default:
		s.drop(notice{}, "payload carries no payment block")
		return notice{}, false
	}

	if code == "" || amount == "" || date == "" || documentID <= 0 {
		s.drop(notice{orderCode: code, documentID: documentID},
			"payload is missing the variable symbol, amount, date or document id")
		return notice{}, false
	}

	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		s.drop(notice{orderCode: code, documentID: documentID}, "amount is not a valid decimal")
		return notice{}, false
	}

	paidAt, ok := parsePaymentDate(date)
	if !ok {
		s.drop(notice{orderCode: code, documentID: documentID}, "payment date is not a recognized date")
		return notice{}, false
	}

	return notice{
		orderCode:  code,
		amount:     parsedAmount,
		paidAt:     paidAt,
		documentID: documentID,
		proforma:   event == EventProformaPaid,
	}, true
}

func parsePaymentDate(value string) (time.Time, bool) {
	for _, layout := range paymentDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func (s *Service) drop(n notice, reason string) {
	atomic.AddInt64(&s.dropped, 1)
	s.log.WithFields(logrus.Fields{
		"order_code":  n.orderCode,
		"amount":      n.amount.String(),
		"document_id": n.documentID,
		"reason":      reason,
	}).Warn("payment notification dropped")
}
