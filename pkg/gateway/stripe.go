package gateway

import (
	"context"
	"fmt"
	"strings"

	stripeapi "github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
)

// Stripe implements hosted checkout via Stripe Checkout Sessions. Stripe's
// query API is keyed by session id, not by our reference, so Initialize hands
// the session id back as ProviderRef and Verify expects to receive it.
type Stripe struct {
	secretKey string
}

func NewStripe(secretKey string) *Stripe {
	stripeapi.Key = secretKey
	return &Stripe{secretKey: secretKey}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) Initialize(ctx context.Context, req InitRequest) (*InitResponse, error) {
	successURL := req.CallbackURL
	if strings.Contains(successURL, "?") {
		successURL += "&reference=" + req.Reference
	} else {
		successURL += "?reference=" + req.Reference
	}
	params := &stripeapi.CheckoutSessionParams{
		Mode:              stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		ClientReferenceID: stripeapi.String(req.Reference),
		CustomerEmail:     stripeapi.String(req.Email),
		SuccessURL:        stripeapi.String(successURL),
		CancelURL:         stripeapi.String(successURL + "&cancelled=1"),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{{
			Quantity: stripeapi.Int64(1),
			PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripeapi.String(strings.ToLower(req.Currency)),
				UnitAmount: stripeapi.Int64(req.AmountCents),
				ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripeapi.String(req.Description),
				},
			},
		}},
	}
	params.Context = ctx
	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}
	return &InitResponse{AuthorizationURL: sess.URL, ProviderRef: sess.ID}, nil
}

func (s *Stripe) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	params := &stripeapi.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := session.Get(reference, params)
	if err != nil {
		return nil, fmt.Errorf("stripe session get: %w", err)
	}
	result := &VerifyResult{
		AmountPaidCents: sess.AmountTotal,
		Currency:        strings.ToUpper(string(sess.Currency)),
	}
	switch {
	case sess.PaymentStatus == stripeapi.CheckoutSessionPaymentStatusPaid:
		result.Outcome = OutcomeSucceeded
	case sess.Status == stripeapi.CheckoutSessionStatusExpired:
		result.Outcome = OutcomeFailed
	default:
		result.Outcome = OutcomePending
	}
	return result, nil
}
