package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/bushra/buzzhub/internal/apperror"
	"github.com/bushra/buzzhub/internal/model"
)

// metadata keys as stored on the provider session
const (
	metaClubID           = "clubId"
	metaEventID          = "eventId"
	metaClubName         = "clubName"
	metaEventName        = "eventName"
	metaParticipantEmail = "participantEmail"
	metaPaymentType      = "paymentType"
	metaEventManager     = "eventManager"
)

// StripeGateway implements Gateway against Stripe Checkout.
//
// The client is injected rather than configured through the package-global
// stripe.Key, so two gateways with different keys can coexist and tests can
// construct one without touching global state.
type StripeGateway struct {
	api         *client.API
	redirectURL string // base for success/cancel links, no trailing slash
	currency    string
}

// compile-time check that *StripeGateway implements Gateway
var _ Gateway = (*StripeGateway)(nil)

// NewStripeGateway creates a gateway using the given secret key. redirectURL
// is where the payer lands after the provider's hosted page; typically the
// frontend origin.
func NewStripeGateway(secretKey, redirectURL string) (*StripeGateway, error) {
	if secretKey == "" {
		return nil, errors.New("payments: Stripe secret key is required")
	}
	if redirectURL == "" {
		return nil, errors.New("payments: redirect base URL is required")
	}

	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripeGateway{
		api:         api,
		redirectURL: redirectURL,
		currency:    "usd",
	}, nil
}

// CreateSession creates a Checkout session and returns its hosted URL.
//
// The success URL carries {CHECKOUT_SESSION_ID}; Stripe substitutes the real
// session id, and the frontend hands it back to /verify-payment-session as
// the correlation token.
func (g *StripeGateway) CreateSession(ctx context.Context, intent CheckoutIntent) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(g.currency),
				UnitAmount: stripe.Int64(intent.UnitAmount()),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(intent.Label),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		CustomerEmail: stripe.String(intent.ParticipantEmail),
		SuccessURL:    stripe.String(g.redirectURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(g.redirectURL + "/payment-cancelled"),
	}

	params.AddMetadata(metaClubID, intent.ClubID)
	params.AddMetadata(metaParticipantEmail, intent.ParticipantEmail)
	params.AddMetadata(metaPaymentType, string(intent.PaymentType))
	switch intent.PaymentType {
	case model.PaymentTypeEventRegistration:
		params.AddMetadata(metaEventID, intent.EventID)
		params.AddMetadata(metaEventName, intent.Label)
		params.AddMetadata(metaEventManager, intent.EventManager)
	default:
		params.AddMetadata(metaClubName, intent.Label)
	}

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return "", apperror.Upstream("payment provider", fmt.Errorf("creating checkout session: %w", err))
	}

	return sess.URL, nil
}

// RetrieveSession reads a session back by id. An unknown id maps to
// ErrSessionNotFound; any transport failure maps to ErrUpstream.
func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*SessionSnapshot, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	}
	params.AddExpand("payment_intent")

	sess, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		return nil, apperror.Upstream("payment provider", fmt.Errorf("retrieving session %s: %w", sessionID, err))
	}

	snapshot := &SessionSnapshot{
		ID:            sess.ID,
		PaymentStatus: PaymentStatus(sess.PaymentStatus),
		Metadata: SessionMetadata{
			ClubID:           sess.Metadata[metaClubID],
			EventID:          sess.Metadata[metaEventID],
			ClubName:         sess.Metadata[metaClubName],
			EventName:        sess.Metadata[metaEventName],
			ParticipantEmail: sess.Metadata[metaParticipantEmail],
			PaymentType:      sess.Metadata[metaPaymentType],
			EventManager:     sess.Metadata[metaEventManager],
		},
	}
	if sess.PaymentIntent != nil {
		snapshot.PaymentID = sess.PaymentIntent.ID
	}

	return snapshot, nil
}
