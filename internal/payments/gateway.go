// Package payments talks to the external payment provider.
//
// The provider owns checkout sessions entirely; nothing about a session is
// persisted locally. A session is created with metadata describing the side
// effect the payment should produce, and read back after the client returns
// from the payment page. The session's payment status is the single source
// of truth for "did payment occur".
package payments

import (
	"context"
	"errors"
	"math"

	"github.com/bushra/buzzhub/internal/model"
)

// ErrSessionNotFound means the provider does not know the session id.
var ErrSessionNotFound = errors.New("payments: session not found")

// PaymentStatus is the provider's view of whether a session was paid.
type PaymentStatus string

const (
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusUnpaid            PaymentStatus = "unpaid"
	PaymentStatusNoPaymentRequired PaymentStatus = "no_payment_required"
)

// CheckoutIntent describes the session to create: what is being bought, who
// is buying it, and the foreign keys needed to reconstruct the target record
// during reconciliation.
//
// Fee is taken as-is from client input. Validating it server-side against the
// club or event document is a known trust-boundary gap, deliberately left
// open to match the reference behavior.
type CheckoutIntent struct {
	Fee              float64
	Label            string // human-readable line item: club name or event name
	ParticipantEmail string
	PaymentType      model.PaymentType
	ClubID           string
	EventID          string // only for event registrations
	EventManager     string // only for event registrations
}

// UnitAmount converts the fee to minor units the provider expects,
// truncating fractional cents: floor(fee) * 100.
func (i CheckoutIntent) UnitAmount() int64 {
	return int64(math.Floor(i.Fee)) * 100
}

// SessionMetadata is the intent as it round-trips through the provider.
// Everything is a string because provider metadata is a string map.
type SessionMetadata struct {
	ClubID           string
	EventID          string
	ClubName         string
	EventName        string
	ParticipantEmail string
	PaymentType      string
	EventManager     string
}

// SessionSnapshot is a session read back from the provider.
type SessionSnapshot struct {
	ID            string
	PaymentStatus PaymentStatus
	PaymentID     string // the provider's payment reference, empty until paid
	Metadata      SessionMetadata
}

// Paid reports whether the session has actually been paid for.
func (s *SessionSnapshot) Paid() bool {
	return s.PaymentStatus == PaymentStatusPaid
}

// Gateway creates and retrieves checkout sessions.
//
// CreateSession returns the URL the client redirects the payer to. The
// gateway does not validate payment on return; the caller is expected to
// call RetrieveSession afterwards and inspect the snapshot.
type Gateway interface {
	CreateSession(ctx context.Context, intent CheckoutIntent) (string, error)
	RetrieveSession(ctx context.Context, sessionID string) (*SessionSnapshot, error)
}
