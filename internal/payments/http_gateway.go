package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPGateway talks to a hosted-checkout payment API: POST an
// initialization to get a checkout URL, GET a verification by tx_ref.
type HTTPGateway struct {
	BaseURL   string
	SecretKey string
	Client    *http.Client
}

func NewHTTPGateway(baseURL, secretKey string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		SecretKey: secretKey,
		Client:    &http.Client{Timeout: timeout},
	}
}

type initPayload struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	TxRef     string `json:"tx_ref"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	ReturnURL string `json:"return_url,omitempty"`
}

type initResponse struct {
	Status string `json:"status"`
	Data   struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
	Message string `json:"message"`
}

type verifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Status string  `json:"status"`
		Amount float64 `json:"amount"`
		Method string  `json:"payment_type"`
	} `json:"data"`
	Message string `json:"message"`
}

func (g *HTTPGateway) Initialize(ctx context.Context, req InitRequest) (InitResult, error) {
	body, err := json.Marshal(initPayload{
		Amount:    fmt.Sprintf("%.2f", req.Amount),
		Currency:  req.Currency,
		TxRef:     req.TxRef,
		Email:     req.Email,
		FirstName: req.FirstName,
		ReturnURL: req.ReturnURL,
	})
	if err != nil {
		return InitResult{}, err
	}

	var out initResponse
	if err := g.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body), &out); err != nil {
		return InitResult{}, err
	}
	if !strings.EqualFold(out.Status, "success") || out.Data.CheckoutURL == "" {
		return InitResult{}, fmt.Errorf("gateway initialize rejected: %s", out.Message)
	}
	return InitResult{CheckoutURL: out.Data.CheckoutURL, TxRef: req.TxRef}, nil
}

func (g *HTTPGateway) Verify(ctx context.Context, txRef string) (VerifyResult, error) {
	var out verifyResponse
	if err := g.do(ctx, http.MethodGet, "/transaction/verify/"+txRef, nil, &out); err != nil {
		return VerifyResult{}, err
	}

	// The API answers success/failed/pending for a known reference; an
	// explicit failure is a real answer, not an availability problem.
	res := VerifyResult{
		Amount: out.Data.Amount,
		Method: out.Data.Method,
	}
	switch strings.ToLower(out.Data.Status) {
	case "success", "completed":
		res.Status = StatusSuccess
	case "failed", "cancelled":
		res.Status = StatusFailed
	default:
		res.Status = StatusPending
	}
	return res, nil
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	if g.BaseURL == "" {
		return ErrUnavailable
	}
	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.SecretKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		// Network-level failure: the caller decides whether persisted
		// state can answer instead.
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: gateway returned %d", ErrUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	return nil
}
