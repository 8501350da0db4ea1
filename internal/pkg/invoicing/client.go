// internal/pkg/invoicing/client.go
package invoicing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/eshop-backend/internal/errs"
)

const (
	invoiceTypeProforma = "proforma"
	invoiceTypeTaxDoc   = "tax_document"
	invoiceTypeRegular  = "regular"
)

// Client talks to the invoicing provider's REST API. Requests are retried
// with backoff on transport errors and 5xx responses.
type Client struct {
	http      *retryablehttp.Client
	baseURL   string
	email     string
	apiKey    string
	companyID string
}

// NewClient creates a new invoicing API client
func NewClient(baseURL, email, apiKey, companyID string, log *logrus.Logger) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 3
	httpClient.RetryWaitMin = 500 * time.Millisecond
	httpClient.RetryWaitMax = 5 * time.Second
	httpClient.HTTPClient.Timeout = 30 * time.Second
	httpClient.Logger = log

	return &Client{
		http:      httpClient,
		baseURL:   baseURL,
		email:     email,
		apiKey:    apiKey,
		companyID: companyID,
	}
}

type invoiceRequest struct {
	Invoice invoicePayload `json:"Invoice"`
	Client  clientPayload  `json:"Client"`
	Items   []itemPayload  `json:"InvoiceItem"`
}

type invoicePayload struct {
	Type           string `json:"type"`
	VariableSymbol string `json:"variable"`
	Currency       string `json:"invoice_currency"`
	Deposit        string `json:"deposit,omitempty"`
	Created        string `json:"created"`
}

type clientPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type itemPayload struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Tax       string `json:"tax"`
}

type invoiceResponse struct {
	Data struct {
		Invoice struct {
			ID json.Number `json:"id"`
		} `json:"Invoice"`
	} `json:"data"`
	ErrorMessage string `json:"error_message"`
}

// IssueProforma issues a proforma invoice for the order deposit.
func (c *Client) IssueProforma(doc *OrderDocument) (string, error) {
	return c.issue(invoiceTypeProforma, doc)
}

// IssueDepositTaxDocument issues the tax document receipting a paid deposit.
func (c *Client) IssueDepositTaxDocument(doc *OrderDocument) (string, error) {
	return c.issue(invoiceTypeTaxDoc, doc)
}

// IssueFinalInvoice issues the final settlement invoice.
func (c *Client) IssueFinalInvoice(doc *OrderDocument) (string, error) {
	return c.issue(invoiceTypeRegular, doc)
}

// MarkPaid records a payment against an issued invoice.
func (c *Client) MarkPaid(invoiceID string, amount decimal.Decimal, date time.Time, paymentType, orderCode string) error {
	payload := map[string]interface{}{
		"InvoicePayment": map[string]interface{}{
			"invoice_id":      invoiceID,
			"amount":          amount.StringFixed(2),
			"payment_type":    paymentType,
			"payment_date":    date.Format("2006-01-02"),
			"variable_symbol": orderCode,
		},
	}

	var resp invoiceResponse
	if err := c.post("/invoice_payments/add", payload, &resp); err != nil {
		return errs.Collaborator(fmt.Sprintf("failed to mark invoice %s paid", invoiceID), err)
	}
	if resp.ErrorMessage != "" {
		return errs.Collaborator(fmt.Sprintf("failed to mark invoice %s paid", invoiceID),
			fmt.Errorf("provider error: %s", resp.ErrorMessage))
	}
	return nil
}

// Private helper methods

func (c *Client) issue(invoiceType string, doc *OrderDocument) (string, error) {
	payload := invoiceRequest{
		Invoice: invoicePayload{
			Type:           invoiceType,
			VariableSymbol: doc.OrderCode,
			Currency:       doc.Currency,
			Created:        doc.IssuedAt.Format("2006-01-02"),
		},
		Client: clientPayload{
			Name:    doc.CustomerName,
			Email:   doc.CustomerEmail,
			Address: doc.CustomerStreet,
			City:    doc.CustomerCity,
			Zip:     doc.CustomerZip,
			Country: doc.CustomerCountry,
		},
	}
	if doc.DepositAmount != nil {
		payload.Invoice.Deposit = doc.DepositAmount.StringFixed(2)
	}
	for _, item := range doc.Items {
		payload.Items = append(payload.Items, itemPayload{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Tax:       item.TaxRatePct.StringFixed(0),
		})
	}

	var resp invoiceResponse
	if err := c.post("/invoices/create", payload, &resp); err != nil {
		return "", errs.Collaborator(fmt.Sprintf("failed to issue %s for order %s", invoiceType, doc.OrderCode), err)
	}
	if resp.ErrorMessage != "" {
		return "", errs.Collaborator(fmt.Sprintf("failed to issue %s for order %s", invoiceType, doc.OrderCode),
			fmt.Errorf("provider error: %s", resp.ErrorMessage))
	}
	return resp.Data.Invoice.ID.String(), nil
}

func (c *Client) post(path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := retryablehttp.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization",
		fmt.Sprintf("SFAPI email=%s&apikey=%s&company_id=%s", c.email, c.apiKey, c.companyID))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
