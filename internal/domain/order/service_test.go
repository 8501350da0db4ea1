// internal/domain/order/service_test.go
package order

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/eshop-backend/internal/domain/catalog"
	"github.com/your-org/eshop-backend/internal/domain/coupon"
	"github.com/your-org/eshop-backend/internal/domain/customer"
	"github.com/your-org/eshop-backend/internal/errs"
	"github.com/your-org/eshop-backend/internal/pkg/invoicing"
	"github.com/your-org/eshop-backend/internal/pkg/money"
	"github.com/your-org/eshop-backend/internal/pkg/notification"
	"github.com/your-org/eshop-backend/internal/pkg/shipping"
)

// In-memory fakes

type memRepository struct {
	byCode map[string]*Order
	nextID uint
	saves  int
}

func newMemRepository() *memRepository {
	return &memRepository{byCode: make(map[string]*Order)}
}

func (r *memRepository) Create(o *Order) error {
	r.nextID++
	o.ID = r.nextID
	o.OrderCode = FormatOrderCode(time.Now().Year(), int64(len(r.byCode))+1)
	clone := *o
	r.byCode[o.OrderCode] = &clone
	return nil
}

func (r *memRepository) Save(o *Order) error {
	r.saves++
	clone := *o
	r.byCode[o.OrderCode] = &clone
	return nil
}

func (r *memRepository) FindByID(id uint) (*Order, error) {
	for _, o := range r.byCode {
		if o.ID == id {
			clone := *o
			return &clone, nil
		}
	}
	return nil, errs.NotFound("order", id)
}

func (r *memRepository) FindByCode(code string) (*Order, error) {
	o, ok := r.byCode[code]
	if !ok {
		return nil, errs.NotFound("order", code)
	}
	clone := *o
	return &clone, nil
}

func (r *memRepository) List(limit, offset int) ([]Order, int64, error) {
	var orders []Order
	for _, o := range r.byCode {
		orders = append(orders, *o)
	}
	return orders, int64(len(orders)), nil
}

func (r *memRepository) UpdateLocked(code string, fn func(*Order) error) error {
	o, ok := r.byCode[code]
	if !ok {
		return errs.NotFound("order", code)
	}
	if err := fn(o); err != nil {
		return err
	}
	return nil
}

func (r *memRepository) CountOrdersWithCoupon(customerID uint, couponID uint) (int64, error) {
	return 0, nil
}

type fakeCatalog struct {
	products map[uint]*catalog.Product
	taxRates map[uint]*catalog.TaxRate
	designs  map[uint]*catalog.Design
	glazes   map[uint]*catalog.Glaze
	colors   map[uint]*catalog.RoofColor
	addons   map[uint]*catalog.Addon
}

func (f *fakeCatalog) GetProduct(id uint) (*catalog.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, errs.NotFound("product", id)
}

func (f *fakeCatalog) GetTaxRate(id uint) (*catalog.TaxRate, error) {
	if r, ok := f.taxRates[id]; ok {
		return r, nil
	}
	return nil, errs.NotFound("tax rate", id)
}

func (f *fakeCatalog) GetDesign(id uint) (*catalog.Design, error) {
	if d, ok := f.designs[id]; ok {
		return d, nil
	}
	return nil, errs.NotFound("design", id)
}

func (f *fakeCatalog) GetGlaze(id uint) (*catalog.Glaze, error) {
	if g, ok := f.glazes[id]; ok {
		return g, nil
	}
	return nil, errs.NotFound("glaze", id)
}

func (f *fakeCatalog) GetRoofColor(id uint) (*catalog.RoofColor, error) {
	if c, ok := f.colors[id]; ok {
		return c, nil
	}
	return nil, errs.NotFound("roof color", id)
}

func (f *fakeCatalog) GetAddon(id uint) (*catalog.Addon, error) {
	if a, ok := f.addons[id]; ok {
		return a, nil
	}
	return nil, errs.NotFound("addon", id)
}

type fakeCoupons struct {
	byCode      map[string]*coupon.Coupon
	validateErr error
	markedUsed  []string
	markUsedErr error
}

func (f *fakeCoupons) FindByCode(code string) (*coupon.Coupon, error) {
	if c, ok := f.byCode[coupon.NormalizeCode(code)]; ok {
		return c, nil
	}
	return nil, errs.NotFound("coupon", code)
}

func (f *fakeCoupons) ValidateForOrder(c *coupon.Coupon, customerID *uint, baseAmount decimal.Decimal, currency string) error {
	return f.validateErr
}

func (f *fakeCoupons) MarkCouponAsUsed(c *coupon.Coupon) error {
	if f.markUsedErr != nil {
		return f.markUsedErr
	}
	f.markedUsed = append(f.markedUsed, c.Code)
	return nil
}

type fakeCustomers struct {
	byID map[uint]*customer.Customer
}

func (f *fakeCustomers) GetCustomer(id uint) (*customer.Customer, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, errs.NotFound("customer", id)
}

// fakeDepositPolicy mirrors the production policy: half the total rounded
// down to whole thousands, deposit orders start awaiting their deposit.
type fakeDepositPolicy struct{}

func (fakeDepositPolicy) CalculateDeposit(total decimal.Decimal) decimal.Decimal {
	return money.RoundPrice(money.RoundDownToThousand(total.Div(decimal.NewFromInt(2))))
}

func (fakeDepositPolicy) InitialPaymentStatus(o *Order) string {
	if o.HasDeposit() {
		return PaymentStatusAwaitingDeposit
	}
	return PaymentStatusPending
}

type fakeShipping struct {
	cost    decimal.Decimal
	taxRate decimal.Decimal
	err     error
}

func (f *fakeShipping) QuoteShippingCost(destination shipping.Address, currency string) (decimal.Decimal, error) {
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.cost, nil
}

func (f *fakeShipping) ShippingTaxRate() decimal.Decimal {
	return f.taxRate
}

type fakeInvoicing struct {
	proformas    int
	taxDocs      int
	finals       int
	paid         []string
	issueErr     error
	nextID       int
	lastDocument *invoicing.OrderDocument
}

func (f *fakeInvoicing) IssueProforma(doc *invoicing.OrderDocument) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.proformas++
	f.nextID++
	f.lastDocument = doc
	return fmt.Sprintf("PF-%d", f.nextID), nil
}

func (f *fakeInvoicing) IssueDepositTaxDocument(doc *invoicing.OrderDocument) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.taxDocs++
	f.nextID++
	return fmt.Sprintf("TD-%d", f.nextID), nil
}

func (f *fakeInvoicing) IssueFinalInvoice(doc *invoicing.OrderDocument) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.finals++
	f.nextID++
	return fmt.Sprintf("FI-%d", f.nextID), nil
}

func (f *fakeInvoicing) MarkPaid(invoiceID string, amount decimal.Decimal, date time.Time, paymentType, orderCode string) error {
	f.paid = append(f.paid, invoiceID)
	return nil
}

type fakeNotifier struct {
	confirmations []string
	updates       []string
}

func (f *fakeNotifier) SendOrderConfirmation(info notification.OrderInfo) error {
	f.confirmations = append(f.confirmations, info.OrderCode)
	return nil
}

func (f *fakeNotifier) SendStatusUpdate(info notification.OrderInfo, newStatus string) error {
	f.updates = append(f.updates, info.OrderCode+":"+newStatus)
	return nil
}

// Fixtures

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func taxRateID(id uint) *uint { return &id }

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: map[uint]*catalog.Product{
			1: {
				ID:           1,
				Code:         "BENCH-1",
				Name:         "Garden Bench",
				BasePriceCZK: decPtr("100.00"),
				BasePriceEUR: decPtr("4.00"),
				IsActive:     true,
				TaxRateID:    taxRateID(1),
				Addons: []catalog.Addon{
					{ID: 10, Name: "Shelf", IsActive: true, PriceCZK: decPtr("50.00")},
				},
			},
			2: {
				ID:           2,
				Code:         "SHED-CUSTOM",
				Name:         "Custom Garden Shed",
				Customisable: true,
				IsActive:     true,
				TaxRateID:    taxRateID(1),
				Configurator: &catalog.Configurator{
					ProductID:           2,
					MinLength:           dec("100"),
					MaxLength:           dec("500"),
					MinWidth:            dec("100"),
					MaxWidth:            dec("400"),
					MinHeight:           dec("100"),
					MaxHeight:           dec("300"),
					PricePerCmLengthCZK: decPtr("10"),
					PricePerCmWidthCZK:  decPtr("8"),
					PricePerCmHeightCZK: decPtr("5"),
				},
			},
			3: {
				ID:           3,
				Code:         "BENCH-OLD",
				Name:         "Retired Bench",
				BasePriceCZK: decPtr("100.00"),
				IsActive:     false,
			},
		},
		taxRates: map[uint]*catalog.TaxRate{
			1: {ID: 1, Name: "standard", Rate: dec("0.21")},
		},
		designs: map[uint]*catalog.Design{
			5: {ID: 5, Name: "Classic", IsActive: true, SurchargeCZK: decPtr("200.00")},
		},
		glazes: map[uint]*catalog.Glaze{},
		colors: map[uint]*catalog.RoofColor{},
		addons: map[uint]*catalog.Addon{
			10: {ID: 10, Name: "Shelf", IsActive: true, PriceCZK: decPtr("50.00")},
		},
	}
}

func testCustomer() *customer.Customer {
	return &customer.Customer{
		ID:                   7,
		Email:                "jana@example.com",
		FirstName:            "Jana",
		LastName:             "Novakova",
		InvoiceStreet:        "Dlouha 12",
		InvoiceCity:          "Praha",
		InvoiceZipCode:       "11000",
		InvoiceCountry:       "CZ",
		UseInvoiceAsDelivery: true,
	}
}

type serviceFixture struct {
	svc       *Service
	repo      *memRepository
	catalog   *fakeCatalog
	coupons   *fakeCoupons
	shipping  *fakeShipping
	invoicing *fakeInvoicing
	notifier  *fakeNotifier
}

func newServiceFixture() *serviceFixture {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	f := &serviceFixture{
		repo:      newMemRepository(),
		catalog:   testCatalog(),
		coupons:   &fakeCoupons{byCode: map[string]*coupon.Coupon{}},
		shipping:  &fakeShipping{cost: decimal.Zero, taxRate: dec("0.21")},
		invoicing: &fakeInvoicing{},
		notifier:  &fakeNotifier{},
	}
	customers := &fakeCustomers{byID: map[uint]*customer.Customer{7: testCustomer()}}
	f.svc = NewService(f.repo, customers, f.catalog, f.coupons, fakeDepositPolicy{},
		f.shipping, f.invoicing, f.notifier, log)
	return f
}

func standardRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		CustomerID:    7,
		Currency:      money.CurrencyCZK,
		PaymentMethod: PaymentMethodBankTransfer,
		Items: []ItemRequest{
			{ProductID: 1, Quantity: 2},
		},
	}
}

// Tests

func TestCreateOrderTotals(t *testing.T) {
	f := newServiceFixture()

	o, err := f.svc.CreateOrder(standardRequest())
	require.NoError(t, err)

	assert.Equal(t, "200.00", o.Subtotal.StringFixed(2))
	assert.Equal(t, "42.00", o.ItemsTax.StringFixed(2))
	assert.Equal(t, "200.00", o.TotalPriceExclTax.StringFixed(2))
	assert.Equal(t, "42.00", o.TotalTax.StringFixed(2))
	assert.Equal(t, "242.00", o.TotalPrice.StringFixed(2))
	assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
	assert.Nil(t, o.DepositAmount)

	require.Len(t, o.Items, 1)
	assert.Equal(t, "100.00", o.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "200.00", o.Items[0].LineExclTax.StringFixed(2))
	assert.Equal(t, "42.00", o.Items[0].TaxAmount.StringFixed(2))
}

func TestCreateOrderCodeFormat(t *testing.T) {
	f := newServiceFixture()

	o, err := f.svc.CreateOrder(standardRequest())
	require.NoError(t, err)

	expected := fmt.Sprintf("%d0001", time.Now().Year())
	assert.Equal(t, expected, o.OrderCode)

	second, err := f.svc.CreateOrder(standardRequest())
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d0002", time.Now().Year()), second.OrderCode)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newServiceFixture()

	t.Run("no items", func(t *testing.T) {
		req := standardRequest()
		req.Items = nil
		_, err := f.svc.CreateOrder(req)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("unsupported payment method", func(t *testing.T) {
		req := standardRequest()
		req.PaymentMethod = "CRYPTO"
		_, err := f.svc.CreateOrder(req)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("unsupported currency", func(t *testing.T) {
		req := standardRequest()
		req.Currency = "USD"
		_, err := f.svc.CreateOrder(req)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("inactive product", func(t *testing.T) {
		req := standardRequest()
		req.Items = []ItemRequest{{ProductID: 3, Quantity: 1}}
		_, err := f.svc.CreateOrder(req)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("unknown customer", func(t *testing.T) {
		req := standardRequest()
		req.CustomerID = 99
		_, err := f.svc.CreateOrder(req)
		assert.True(t, errs.IsNotFound(err))
	})
}

func TestCreateOrderWithValidCoupon(t *testing.T) {
	f := newServiceFixture()
	f.coupons.byCode["SLEVA10"] = &coupon.Coupon{
		ID: 3, Code: "SLEVA10", IsPercentage: true, Value: decPtr("10"), IsActive: true,
	}

	req := standardRequest()
	req.CouponCode = "sleva10"

	o, err := f.svc.CreateOrder(req)
	require.NoError(t, err)

	require.NotNil(t, o.AppliedCouponID)
	assert.Equal(t, uint(3), *o.AppliedCouponID)
	assert.Equal(t, "SLEVA10", o.SubmittedCouponCode)
	assert.Equal(t, "20.00", o.CouponDiscountAmount.StringFixed(2))
	assert.Equal(t, "180.00", o.TotalPriceExclTax.StringFixed(2))
	assert.Equal(t, []string{"SLEVA10"}, f.coupons.markedUsed)
}

func TestCreateOrderWithUnknownCouponSucceeds(t *testing.T) {
	f := newServiceFixture()

	req := standardRequest()
	req.CouponCode = "nope"

	o, err := f.svc.CreateOrder(req)
	require.NoError(t, err)

	assert.Nil(t, o.AppliedCouponID)
	assert.Equal(t, "NOPE", o.SubmittedCouponCode)
	assert.True(t, o.CouponDiscountAmount.IsZero())
	assert.Equal(t, "242.00", o.TotalPrice.StringFixed(2))
	assert.Empty(t, f.coupons.markedUsed)
}

func TestCreateOrderWithInapplicableCouponSucceeds(t *testing.T) {
	f := newServiceFixture()
	f.coupons.byCode["EXPIRED"] = &coupon.Coupon{ID: 4, Code: "EXPIRED"}
	f.coupons.validateErr = errs.Validation("coupon %q is not currently valid", "EXPIRED")

	req := standardRequest()
	req.CouponCode = "EXPIRED"

	o, err := f.svc.CreateOrder(req)
	require.NoError(t, err)

	assert.Nil(t, o.AppliedCouponID)
	assert.Equal(t, "EXPIRED", o.SubmittedCouponCode)
	assert.True(t, o.CouponDiscountAmount.IsZero())
	assert.Empty(t, f.coupons.markedUsed)
}

func TestCreateOrderFreeShippingCoupon(t *testing.T) {
	f := newServiceFixture()
	f.shipping.cost = dec("500.00")
	f.coupons.byCode["DOPRAVA"] = &coupon.Coupon{
		ID: 5, Code: "DOPRAVA", FreeShipping: true, IsActive: true,
	}

	req := standardRequest()
	req.CouponCode = "DOPRAVA"

	o, err := f.svc.CreateOrder(req)
	require.NoError(t, err)

	assert.True(t, o.ShippingCostExclTax.IsZero())
	assert.True(t, o.ShippingTaxRate.IsZero())
	assert.True(t, o.ShippingTax.IsZero())
	assert.True(t, o.CouponDiscountAmount.IsZero())
	assert.Equal(t, "242.00", o.TotalPrice.StringFixed(2))
}

func TestCreateOrderQuotedShipping(t *testing.T) {
	f := newServiceFixture()
	f.shipping.cost = dec("500.00")
	f.shipping.taxRate = dec("0.21")

	o, err := f.svc.CreateOrder(standardRequest())
	require.NoError(t, err)

	assert.Equal(t, "500.00", o.ShippingCostExclTax.StringFixed(2))
	assert.Equal(t, "0.21", o.ShippingTaxRate.String())
	assert.Equal(t, "105.00", o.ShippingTax.StringFixed(2))
	assert.Equal(t, "700.00", o.TotalPriceExclTax.StringFixed(2))
	assert.Equal(t, "147.00", o.TotalTax.StringFixed(2))
	assert.Equal(t, "847.00", o.TotalPrice.StringFixed(2))
}

func TestCreateOrderPreQuotedShipping(t *testing.T) {
	f := newServiceFixture()
	f.shipping.err = errors.New("quote service should not be called")

	req := standardRequest()
	req.ShippingCostExclTax = decPtr("300.00")
	req.ShippingTax = decPtr("63.00")

	o, err := f.svc.CreateOrder(req)
	require.NoError(t, err)

	assert.Equal(t, "300.00", o.ShippingCostExclTax.StringFixed(2))
	assert.Equal(t, "63.00", o.ShippingTax.StringFixed(2))
	assert.Equal(t, "0.21", o.ShippingTaxRate.String())
}

func TestCreateOrderShippingQuoteFailureIsFatal(t *testing.T) {
	f := newServiceFixture()
	f.shipping.err = errors.New("carrier unavailable")

	_, err := f.svc.CreateOrder(standardRequest())
	require.Error(t, err)
	assert.True(t, errs.IsCollaborator(err))
	assert.Empty(t, f.repo.byCode)
	assert.Empty(t, f.notifier.confirmations)
}

func TestCreateOrderTruncatesDisplayTotal(t *testing.T) {
	f := newServiceFixture()
	f.catalog.products[1].BasePriceCZK = decPtr("100.33")

	req := standardRequest()
	req.Items = []ItemRequest{{ProductID: 1, Quantity: 1}}

	o, err := f.svc.CreateOrder(req)
	require.NoError(t, err)

	// 100.33 * 1.21 = 121.3993 -> tax rounds to 21.07, total 121.40
	assert.Equal(t, "121.40", o.OriginalTotalPrice.StringFixed(2))
	assert.Equal(t, "121.00", o.TotalPrice.StringFixed(2))
}

func TestCreateOrderCustomItemDeposit(t *testing.T) {
	f := newServiceFixture()

	req := standardRequest()
	req.Items = []ItemRequest{{
		ProductID: 2,
		Quantity:  1,
		Custom:    true,
		Dimensions: map[string]decimal.Decimal{
			catalog.DimensionLength: dec("200"),
			catalog.DimensionWidth:  dec("150"),
			catalog.DimensionHeight: dec("120"),
		},
	}}

	o, err := f.svc.CreateOrder(req)
	require.NoError(t, err)

	// 200*10 + 150*8 + 120*5 = 3800, plus 21% tax = 4598
	assert.Equal(t, "3800.00", o.Subtotal.StringFixed(2))
	assert.Equal(t, "4598.00", o.TotalPrice.StringFixed(2))

	require.NotNil(t, o.DepositAmount)
	assert.Equal(t, "2000.00", o.DepositAmount.StringFixed(2))
	assert.Equal(t, PaymentStatusAwaitingDeposit, o.PaymentStatus)

	// Proforma is issued after persistence and its id stored.
	assert.Equal(t, 1, f.invoicing.proformas)
	assert.Equal(t, "PF-1", o.ProformaInvoiceID)
	stored, err := f.repo.FindByCode(o.OrderCode)
	require.NoError(t, err)
	assert.Equal(t, "PF-1", stored.ProformaInvoiceID)

	require.NotNil(t, f.invoicing.lastDocument)
	assert.Equal(t, o.OrderCode, f.invoicing.lastDocument.OrderCode)
}

func TestCreateOrderProformaFailureIsNonFatal(t *testing.T) {
	f := newServiceFixture()
	f.invoicing.issueErr = errors.New("provider down")

	req := standardRequest()
	req.Items = []ItemRequest{{
		ProductID: 2,
		Quantity:  1,
		Custom:    true,
		Dimensions: map[string]decimal.Decimal{
			catalog.DimensionLength: dec("200"),
			catalog.DimensionWidth:  dec("150"),
			catalog.DimensionHeight: dec("120"),
		},
	}}

	o, err := f.svc.CreateOrder(req)
	require.NoError(t, err)
	assert.Empty(t, o.ProformaInvoiceID)
	assert.Equal(t, PaymentStatusAwaitingDeposit, o.PaymentStatus)
}

func TestCreateOrderNoDepositForCatalogItems(t *testing.T) {
	f := newServiceFixture()

	o, err := f.svc.CreateOrder(standardRequest())
	require.NoError(t, err)

	assert.Nil(t, o.DepositAmount)
	assert.Equal(t, 0, f.invoicing.proformas)
}

func TestCreateOrderItemAddons(t *testing.T) {
	f := newServiceFixture()

	req := standardRequest()
	req.Items = []ItemRequest{{
		ProductID: 1,
		Quantity:  1,
		Addons:    []AddonRequest{{AddonID: 10, Quantity: 2}},
	}}

	o, err := f.svc.CreateOrder(req)
	require.NoError(t, err)

	// 100 base + 2 * 50 addon = 200
	require.Len(t, o.Items, 1)
	assert.Equal(t, "200.00", o.Items[0].UnitPrice.StringFixed(2))
	require.Len(t, o.Items[0].Addons, 1)
	assert.Equal(t, "Shelf", o.Items[0].Addons[0].Name)
	assert.Equal(t, 2, o.Items[0].Addons[0].Quantity)
}

func TestCreateOrderRejectsUnassignedAddon(t *testing.T) {
	f := newServiceFixture()
	f.catalog.addons[11] = &catalog.Addon{ID: 11, Name: "Ramp", IsActive: true, PriceCZK: decPtr("900.00")}

	req := standardRequest()
	req.Items = []ItemRequest{{
		ProductID: 1,
		Quantity:  1,
		Addons:    []AddonRequest{{AddonID: 11, Quantity: 1}},
	}}

	_, err := f.svc.CreateOrder(req)
	assert.True(t, errs.IsValidation(err))
}

func TestCreateOrderDesignSurchargeOnCatalogItem(t *testing.T) {
	f := newServiceFixture()

	designID := uint(5)
	req := standardRequest()
	req.Items = []ItemRequest{{ProductID: 1, Quantity: 1, DesignID: &designID}}

	o, err := f.svc.CreateOrder(req)
	require.NoError(t, err)

	assert.Equal(t, "300.00", o.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "Classic", o.Items[0].DesignName)
}

func TestCreateOrderSendsConfirmation(t *testing.T) {
	f := newServiceFixture()

	o, err := f.svc.CreateOrder(standardRequest())
	require.NoError(t, err)

	assert.Equal(t, []string{o.OrderCode}, f.notifier.confirmations)
}

func TestOutstandingBalance(t *testing.T) {
	deposit := dec("2000.00")
	o := &Order{
		OriginalTotalPrice: dec("4598.40"),
		DepositAmount:      &deposit,
		PaymentStatus:      PaymentStatusAwaitingDeposit,
	}

	assert.Equal(t, "4598.40", o.OutstandingBalance().StringFixed(2))

	o.PaymentStatus = PaymentStatusDepositPaid
	assert.Equal(t, "2598.40", o.OutstandingBalance().StringFixed(2))
}

func TestBuildDocumentTaxRatePercentage(t *testing.T) {
	rate := dec("0.21")
	o := &Order{
		OrderCode: "20260001",
		Currency:  money.CurrencyCZK,
		Items: []OrderItem{
			{ProductName: "Garden Bench", Quantity: 2, UnitPrice: dec("100.00"), TaxRateValue: &rate},
		},
	}

	doc := BuildDocument(o)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "21", doc.Items[0].TaxRatePct.String())
	assert.Equal(t, "20260001", doc.OrderCode)
}
