// internal/domain/payment/service.go
package payment

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/eshop-backend/internal/domain/order"
	"github.com/your-org/eshop-backend/internal/errs"
	"github.com/your-org/eshop-backend/internal/pkg/invoicing"
	"github.com/your-org/eshop-backend/internal/pkg/money"
	"github.com/your-org/eshop-backend/internal/pkg/notification"
)

// depositFraction is the share of the order total collected up front on
// orders containing made-to-order items.
var depositFraction = decimal.NewFromFloat(0.5)

// Service owns the payment lifecycle of an order: deposit sizing, the
// state transitions driven by staff actions and provider notifications,
// and the invoicing follow-ups each transition triggers. All transitions
// run under a per-order row lock.
type Service struct {
	repo      order.Repository
	invoicing invoicing.Service
	notifier  notification.Notifier
	log       *logrus.Logger
	dropped   int64 // dropped webhook notifications, read atomically
}

// NewService creates a new payment service
func NewService(repo order.Repository, invoicingService invoicing.Service,
	notifier notification.Notifier, log *logrus.Logger) *Service {
	return &Service{
		repo:      repo,
		invoicing: invoicingService,
		notifier:  notifier,
		log:       log,
	}
}

// CalculateDeposit sizes the deposit: half the unrounded total, rounded
// down to whole thousands. Small orders round down to zero and carry no
// deposit.
func (s *Service) CalculateDeposit(total decimal.Decimal) decimal.Decimal {
	deposit := money.RoundDownToThousand(total.Mul(depositFraction))
	return money.RoundPrice(money.FloorAtZero(deposit))
}

// InitialPaymentStatus returns the payment status a new order starts in.
func (s *Service) InitialPaymentStatus(o *order.Order) string {
	if o.HasDeposit() {
		return order.PaymentStatusAwaitingDeposit
	}
	return order.PaymentStatusPending
}

// MarkDepositPaid records a received deposit on an order. Valid only from
// AWAITING_DEPOSIT; the transition receipts the deposit with a tax
// document and marks the proforma paid at the provider. The invoicing
// follow-ups are non-fatal once the transition is committed.
func (s *Service) MarkDepositPaid(orderCode string, paidAt time.Time) (*order.Order, error) {
	if paidAt.IsZero() {
		return nil, errs.Validation("deposit payment date is required")
	}

	var updated *order.Order
	err := s.repo.UpdateLocked(orderCode, func(o *order.Order) error {
		if err := s.checkDepositTransition(o); err != nil {
			return err
		}
		o.PaymentStatus = order.PaymentStatusDepositPaid
		o.DepositPaidDate = &paidAt
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.runDepositPaidSteps(updated, paidAt)
	return updated, nil
}

// MarkFullyPaid records receipt of the full outstanding balance. Valid
// from any non-final status; an order still awaiting its deposit settles
// its full total in one payment.
func (s *Service) MarkFullyPaid(orderCode string, paidAt time.Time) (*order.Order, error) {
	if paidAt.IsZero() {
		return nil, errs.Validation("payment date is required")
	}

	var updated *order.Order
	var amount decimal.Decimal
	err := s.repo.UpdateLocked(orderCode, func(o *order.Order) error {
		if err := s.checkFullPaymentTransition(o); err != nil {
			return err
		}
		amount = o.OutstandingBalance()
		o.PaymentStatus = order.PaymentStatusPaid
		o.PaymentDate = &paidAt
		if o.HasDeposit() && o.DepositPaidDate == nil {
			o.DepositPaidDate = &paidAt
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.runFullyPaidSteps(updated, amount, paidAt)
	return updated, nil
}

// Private helper methods

func (s *Service) checkDepositTransition(o *order.Order) error {
	if !o.HasDeposit() {
		return errs.Validation("order %s has no deposit to pay", o.OrderCode)
	}
	switch o.PaymentStatus {
	case order.PaymentStatusAwaitingDeposit:
		return nil
	case order.PaymentStatusDepositPaid:
		return errs.Conflict("order %s deposit is already paid", o.OrderCode)
	case order.PaymentStatusPaid:
		return errs.Conflict("order %s is already fully paid", o.OrderCode)
	default:
		return errs.Conflict("order %s cannot accept a deposit in status %s", o.OrderCode, o.PaymentStatus)
	}
}

func (s *Service) checkFullPaymentTransition(o *order.Order) error {
	switch o.PaymentStatus {
	case order.PaymentStatusPending, order.PaymentStatusAwaitingDeposit, order.PaymentStatusDepositPaid:
		return nil
	case order.PaymentStatusPaid:
		return errs.Conflict("order %s is already fully paid", o.OrderCode)
	default:
		return errs.Conflict("order %s cannot be paid in status %s", o.OrderCode, o.PaymentStatus)
	}
}

// runDepositPaidSteps performs the invoicing follow-ups of a committed
// deposit transition. Failures are logged; the transition stands.
func (s *Service) runDepositPaidSteps(o *order.Order, paidAt time.Time) {
	if o.ProformaInvoiceID != "" {
		err := s.invoicing.MarkPaid(o.ProformaInvoiceID, *o.DepositAmount, paidAt,
			invoicing.PaymentTypeForMethod(o.PaymentMethod), o.OrderCode)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"order_code": o.OrderCode,
				"invoice_id": o.ProformaInvoiceID,
				"error":      err.Error(),
			}).Error("failed to mark proforma paid")
		}
	}

	if o.TaxDocumentID == "" {
		taxDocID, err := s.invoicing.IssueDepositTaxDocument(order.BuildDocument(o))
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"order_code": o.OrderCode,
				"error":      err.Error(),
			}).Error("failed to issue deposit tax document")
		} else {
			o.TaxDocumentID = taxDocID
			if err := s.repo.Save(o); err != nil {
				s.log.WithFields(logrus.Fields{
					"order_code": o.OrderCode,
					"error":      err.Error(),
				}).Error("failed to store tax document id")
			}
		}
	}

	s.notifyStatus(o)
}

// runFullyPaidSteps performs the invoicing follow-ups of a committed full
// payment. Failures are logged; the transition stands.
func (s *Service) runFullyPaidSteps(o *order.Order, amount decimal.Decimal, paidAt time.Time) {
	if o.FinalInvoiceID == "" {
		finalID, err := s.invoicing.IssueFinalInvoice(order.BuildDocument(o))
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"order_code": o.OrderCode,
				"error":      err.Error(),
			}).Error("failed to issue final invoice")
		} else {
			o.FinalInvoiceID = finalID
			if err := s.repo.Save(o); err != nil {
				s.log.WithFields(logrus.Fields{
					"order_code": o.OrderCode,
					"error":      err.Error(),
				}).Error("failed to store final invoice id")
			}
		}
	}

	if o.FinalInvoiceID != "" {
		err := s.invoicing.MarkPaid(o.FinalInvoiceID, amount, paidAt,
			invoicing.PaymentTypeForMethod(o.PaymentMethod), o.OrderCode)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"order_code": o.OrderCode,
				"invoice_id": o.FinalInvoiceID,
				"error":      err.Error(),
			}).Error("failed to mark final invoice paid")
		}
	}

	s.notifyStatus(o)
}

func (s *Service) notifyStatus(o *order.Order) {
	err := s.notifier.SendStatusUpdate(notification.OrderInfo{
		OrderCode:     o.OrderCode,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Currency:      o.Currency,
		TotalPrice:    o.TotalPrice,
	}, o.PaymentStatus)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"order_code": o.OrderCode,
			"error":      err.Error(),
		}).Error("failed to send payment status notification")
	}
}
