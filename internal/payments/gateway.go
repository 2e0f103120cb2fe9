package payments

import (
	"context"
	"errors"
)

// ErrUnavailable marks a gateway round-trip that could not complete at
// all (network, timeout, unconfigured). The reconciler reacts to it by
// falling back to persisted state; an explicit decline is never wrapped
// in it.
var ErrUnavailable = errors.New("payment gateway unreachable")

// Verification outcomes reported by a gateway.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// InitRequest carries everything a gateway needs to open a checkout.
type InitRequest struct {
	Amount    float64
	Currency  string
	TxRef     string
	Email     string
	FirstName string
	ReturnURL string
}

// InitResult is the opened checkout.
type InitResult struct {
	CheckoutURL string
	TxRef       string
}

// VerifyResult is the gateway's answer for one transaction reference.
type VerifyResult struct {
	Status string
	Amount float64
	Method string
}

// Gateway is the external payment processor contract: initialize a
// checkout, verify a transaction. Webhook delivery reuses the verify
// semantics. Implementations carry their own timeouts; calls are always
// made outside any open database transaction.
type Gateway interface {
	Initialize(ctx context.Context, req InitRequest) (InitResult, error)
	Verify(ctx context.Context, txRef string) (VerifyResult, error)
}
