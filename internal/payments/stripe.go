package payments

import (
	"context"
	"errors"

	stripe "github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
)

// StripeGateway implements the hosted-checkout contract over Stripe
// Checkout Sessions. The session id doubles as the transaction
// reference.
type StripeGateway struct {
	Currency string
}

// NewStripeGateway sets the package-level API key once.
func NewStripeGateway(apiKey, currency string) *StripeGateway {
	stripe.Key = apiKey
	if currency == "" {
		currency = "usd"
	}
	return &StripeGateway{Currency: currency}
}

func (g *StripeGateway) Initialize(ctx context.Context, req InitRequest) (InitResult, error) {
	currency := req.Currency
	if currency == "" {
		currency = g.Currency
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.TxRef),
		SuccessURL:        stripe.String(req.ReturnURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(int64(req.Amount * 100)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String("Tour booking " + req.TxRef),
				},
			},
		}},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return InitResult{}, classifyStripeErr(err)
	}
	return InitResult{CheckoutURL: s.URL, TxRef: s.ID}, nil
}

func (g *StripeGateway) Verify(ctx context.Context, txRef string) (VerifyResult, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	s, err := session.Get(txRef, params)
	if err != nil {
		return VerifyResult{}, classifyStripeErr(err)
	}

	res := VerifyResult{
		Amount: float64(s.AmountTotal) / 100,
		Method: "card",
	}
	switch s.PaymentStatus {
	case stripe.CheckoutSessionPaymentStatusPaid:
		res.Status = StatusSuccess
	case stripe.CheckoutSessionPaymentStatusUnpaid:
		if s.Status == stripe.CheckoutSessionStatusExpired {
			res.Status = StatusFailed
		} else {
			res.Status = StatusPending
		}
	default:
		res.Status = StatusPending
	}
	return res, nil
}

func classifyStripeErr(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		// An API-level answer (invalid ref, declined) is a real answer.
		if stripeErr.HTTPStatusCode > 0 && stripeErr.HTTPStatusCode < 500 {
			return err
		}
	}
	return errors.Join(ErrUnavailable, err)
}
