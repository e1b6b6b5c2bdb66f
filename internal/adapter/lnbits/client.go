// Package lnbits implements ports.WalletService against the LNbits REST API.
package lnbits

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"subsidy-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

const apiKeyHeader = "X-Api-Key"

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to an LNbits instance. All methods are fallible and never
// retried; balance failures trigger the caller's derived-balance fallback.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	log        zerolog.Logger
}

// New creates a client for the LNbits instance at baseURL. The timeout
// bounds every request; there is no retry.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    trimTrailingSlash(baseURL),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// NewWithHTTPClient creates a client with a custom HTTP client (testing).
func NewWithHTTPClient(baseURL string, httpClient HTTPClient, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    trimTrailingSlash(baseURL),
		httpClient: httpClient,
		log:        log,
	}
}

func trimTrailingSlash(u string) string {
	for len(u) > 0 && u[len(u)-1] == '/' {
		u = u[:len(u)-1]
	}
	return u
}

type accountResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	AdminKey string `json:"adminkey"`
}

// CreateAccount creates a new LNbits account.
func (c *Client) CreateAccount(ctx context.Context, name string) (*ports.WalletAccount, error) {
	var resp accountResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/account", "", map[string]any{"name": name}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &ports.WalletAccount{ID: resp.ID, Name: resp.Name, AdminKey: resp.AdminKey}, nil
}

type walletResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	AdminKey string `json:"adminkey"`
	InKey    string `json:"inkey"`
	Balance  int64  `json:"balance"` // Millisatoshis
}

// CreateWallet creates a wallet under the account owning accountKey.
func (c *Client) CreateWallet(ctx context.Context, accountKey, name string) (*ports.WalletInfo, error) {
	var resp walletResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/wallet", accountKey, map[string]any{"name": name}, &resp)
	if err != nil {
		return nil, fmt.Errorf("create wallet: %w", err)
	}
	return &ports.WalletInfo{
		ID:         resp.ID,
		Name:       resp.Name,
		AdminKey:   resp.AdminKey,
		InvoiceKey: resp.InKey,
	}, nil
}

// GetBalance fetches the wallet balance for walletKey in whole satoshis.
// LNbits reports millisatoshis; the conversion is integer floor division.
func (c *Client) GetBalance(ctx context.Context, walletKey string) (int64, error) {
	var resp walletResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/wallet", walletKey, nil, &resp)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return resp.Balance / 1000, nil
}

// invoiceResponse tolerates the invoice-string key varying across LNbits
// versions: payment_request, bolt11, or pay_req.
type invoiceResponse struct {
	PaymentHash    string `json:"payment_hash"`
	PaymentRequest string `json:"payment_request"`
	Bolt11         string `json:"bolt11"`
	PayReq         string `json:"pay_req"`
	CheckingID     string `json:"checking_id"`
	Fee            int64  `json:"fee"`
}

func (r *invoiceResponse) paymentRequest() string {
	switch {
	case r.PaymentRequest != "":
		return r.PaymentRequest
	case r.Bolt11 != "":
		return r.Bolt11
	default:
		return r.PayReq
	}
}

// CreateInvoice creates an invoice payable to the wallet owning walletKey.
func (c *Client) CreateInvoice(ctx context.Context, walletKey string, amountSats int64, memo string) (*ports.Invoice, error) {
	body := map[string]any{
		"out":    false,
		"amount": amountSats,
		"memo":   memo,
	}
	var resp invoiceResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/payments", walletKey, body, &resp); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	pr := resp.paymentRequest()
	if pr == "" {
		return nil, fmt.Errorf("create invoice: response carries no payment request")
	}
	return &ports.Invoice{
		PaymentRequest: pr,
		PaymentHash:    resp.PaymentHash,
		CheckingID:     resp.CheckingID,
		Amount:         amountSats,
		Memo:           memo,
	}, nil
}

// PayInvoice settles paymentRequest from the wallet owning walletAdminKey.
func (c *Client) PayInvoice(ctx context.Context, walletAdminKey, paymentRequest string) (*ports.Payment, error) {
	body := map[string]any{
		"out":    true,
		"bolt11": paymentRequest,
	}
	var resp invoiceResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/payments", walletAdminKey, body, &resp); err != nil {
		return nil, fmt.Errorf("pay invoice: %w", err)
	}
	return &ports.Payment{
		PaymentHash: resp.PaymentHash,
		CheckingID:  resp.CheckingID,
		Fee:         resp.Fee,
	}, nil
}

// do issues a request and decodes the JSON body into out.
// Non-2xx statuses are errors carrying the response text.
func (c *Client) do(ctx context.Context, method, path, apiKey string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set(apiKeyHeader, apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("lnbits request rejected")
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Ping implements ports.HealthChecker by querying the admin wallet.
type HealthCheck struct {
	client   *Client
	adminKey string
}

// NewHealthCheck creates an LNbits health checker.
func NewHealthCheck(client *Client, adminKey string) *HealthCheck {
	return &HealthCheck{client: client, adminKey: adminKey}
}

// Ping checks LNbits connectivity via a balance query.
func (h *HealthCheck) Ping(ctx context.Context) error {
	_, err := h.client.GetBalance(ctx, h.adminKey)
	return err
}

// Name returns the dependency name.
func (h *HealthCheck) Name() string {
	return "lnbits"
}
