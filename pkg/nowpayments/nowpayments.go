// Package nowpayments is a minimal NOWPayments client. The engine only
// creates hosted invoices; payment status flows back out of band.
package nowpayments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const defaultBaseURL = "https://api.nowpayments.io/v1"

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type invoiceRequest struct {
	PriceAmount      float64 `json:"price_amount"`
	PriceCurrency    string  `json:"price_currency"`
	OrderID          string  `json:"order_id"`
	OrderDescription string  `json:"order_description,omitempty"`
}

type invoiceResponse struct {
	ID         string `json:"id"`
	InvoiceURL string `json:"invoice_url"`
	Message    string `json:"message"`
}

func (c *Client) CreateInvoice(ctx context.Context, amountCents int64, currency, orderID, description string) (string, string, error) {
	if c.apiKey == "" {
		return "", "", errors.New("nowpayments api key not configured")
	}
	body, err := json.Marshal(invoiceRequest{
		PriceAmount:      float64(amountCents) / 100,
		PriceCurrency:    currency,
		OrderID:          orderID,
		OrderDescription: description,
	})
	if err != nil {
		return "", "", errors.Wrap(err, "marshal invoice request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invoice", bytes.NewReader(body))
	if err != nil {
		return "", "", errors.Wrap(err, "build invoice request")
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", errors.Wrap(err, "invoice request")
	}
	defer resp.Body.Close()

	var out invoiceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", errors.Wrap(err, "decode invoice response")
	}
	if resp.StatusCode != http.StatusOK {
		if out.Message != "" {
			return "", "", fmt.Errorf("nowpayments: %s", out.Message)
		}
		return "", "", fmt.Errorf("nowpayments: status %d", resp.StatusCode)
	}
	return out.ID, out.InvoiceURL, nil
}
