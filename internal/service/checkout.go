package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bushra/buzzhub/internal/apperror"
	"github.com/bushra/buzzhub/internal/model"
	"github.com/bushra/buzzhub/internal/payments"
	"github.com/bushra/buzzhub/internal/repository"
)

// Outcome is the terminal result of a reconciliation attempt. All three are
// successes from the caller's point of view; a polling client needs to tell
// "try again later" (notPaid) from "already done" (alreadyReconciled) from
// "done just now" (reconciled), and none of them is an error.
type Outcome string

const (
	OutcomeReconciled        Outcome = "reconciled"
	OutcomeAlreadyReconciled Outcome = "alreadyReconciled"
	OutcomeNotPaid           Outcome = "notPaid"
)

// Reconciliation reports what a verification call did. Exactly one of
// Membership/Registration is set when the outcome is reconciled.
type Reconciliation struct {
	Outcome      Outcome                  `json:"outcome"`
	PaymentID    string                   `json:"paymentId,omitempty"`
	Membership   *model.ClubMembership    `json:"membership,omitempty"`
	Registration *model.EventRegistration `json:"registration,omitempty"`
}

// CheckoutService creates checkout sessions and reconciles paid ones into
// durable membership/registration records.
//
// Reconcile is idempotent by outcome: however many times it is called for
// the same session, at most one record is created and at most one counter
// increment happens. The existence check and the insert are not wrapped in a
// transaction; with unique keys enforced in the store, a concurrent
// duplicate loses at insert time and is folded into alreadyReconciled.
type CheckoutService struct {
	gateway       payments.Gateway
	clubs         repository.ClubRepository
	memberships   repository.MembershipRepository
	registrations repository.RegistrationRepository
	logger        *slog.Logger
}

func NewCheckoutService(
	gateway payments.Gateway,
	clubs repository.ClubRepository,
	memberships repository.MembershipRepository,
	registrations repository.RegistrationRepository,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		gateway:       gateway,
		clubs:         clubs,
		memberships:   memberships,
		registrations: registrations,
		logger:        logger,
	}
}

// CreateSession validates the intent and asks the gateway for a session.
// Returns the URL the client redirects the payer to.
func (s *CheckoutService) CreateSession(ctx context.Context, intent payments.CheckoutIntent) (string, error) {
	intent.ParticipantEmail = strings.TrimSpace(strings.ToLower(intent.ParticipantEmail))
	if intent.ParticipantEmail == "" {
		return "", apperror.ValidationFailed("participantEmail", "participant email is required")
	}
	if strings.TrimSpace(intent.ClubID) == "" {
		return "", apperror.ValidationFailed("clubId", "club ID is required")
	}
	if intent.Fee <= 0 {
		return "", apperror.ValidationFailed("fee", "fee must be greater than zero")
	}

	switch intent.PaymentType {
	case model.PaymentTypeClubMembership:
	case model.PaymentTypeEventRegistration:
		if strings.TrimSpace(intent.EventID) == "" {
			return "", apperror.ValidationFailed("eventId", "event ID is required for event registrations")
		}
	default:
		return "", apperror.ValidationFailed("paymentType",
			fmt.Sprintf("unknown payment type %q", intent.PaymentType))
	}

	url, err := s.gateway.CreateSession(ctx, intent)
	if err != nil {
		s.logger.Error("failed to create checkout session",
			slog.String("participant", intent.ParticipantEmail),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("creating checkout session: %w", err)
	}

	s.logger.Info("checkout session created",
		slog.String("participant", intent.ParticipantEmail),
		slog.String("paymentType", string(intent.PaymentType)),
		slog.Int64("unitAmount", intent.UnitAmount()),
	)
	return url, nil
}

// Reconcile turns a paid session into exactly one membership or registration
// record.
//
// The session snapshot is the single source of truth for both "did payment
// occur" (its payment status) and "what should be created" (its metadata).
// The caller may retry freely: an unpaid session does nothing, a session
// whose record already exists reports alreadyReconciled without writing.
func (s *CheckoutService) Reconcile(ctx context.Context, sessionID string) (*Reconciliation, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, apperror.ValidationFailed("sessionId", "session ID is required")
	}

	snap, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payments.ErrSessionNotFound) {
			return nil, apperror.NotFound("payment session", sessionID)
		}
		return nil, fmt.Errorf("retrieving session %s: %w", sessionID, err)
	}

	if !snap.Paid() {
		s.logger.Info("session not paid yet",
			slog.String("sessionId", sessionID),
			slog.String("paymentStatus", string(snap.PaymentStatus)),
		)
		return &Reconciliation{Outcome: OutcomeNotPaid}, nil
	}

	switch model.PaymentType(snap.Metadata.PaymentType) {
	case model.PaymentTypeClubMembership:
		return s.reconcileMembership(ctx, snap)
	case model.PaymentTypeEventRegistration:
		return s.reconcileRegistration(ctx, snap)
	default:
		// The gateway only creates sessions with the two known types, so a
		// session reaching this branch was created outside this system.
		return nil, apperror.ValidationFailed("paymentType",
			fmt.Sprintf("unknown payment type %q on session %s", snap.Metadata.PaymentType, sessionID))
	}
}

func (s *CheckoutService) reconcileMembership(ctx context.Context, snap *payments.SessionSnapshot) (*Reconciliation, error) {
	meta := snap.Metadata

	existing, err := s.memberships.FindByKey(ctx, meta.ClubID, meta.ParticipantEmail)
	if err == nil {
		return &Reconciliation{
			Outcome:    OutcomeAlreadyReconciled,
			PaymentID:  existing.PaymentID,
			Membership: existing,
		}, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking membership for session %s: %w", snap.ID, err)
	}

	m := &model.ClubMembership{
		ClubID:           meta.ClubID,
		ClubName:         meta.ClubName,
		ParticipantEmail: meta.ParticipantEmail,
		Status:           model.MemberStatusActive,
		PaymentID:        snap.PaymentID,
		JoinedAt:         time.Now(),
	}
	if err := s.memberships.Insert(ctx, m); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Lost a race with a concurrent reconcile of the same session;
			// the record exists, so this call reports the same terminal
			// outcome the winner did.
			return &Reconciliation{Outcome: OutcomeAlreadyReconciled, PaymentID: snap.PaymentID}, nil
		}
		return nil, fmt.Errorf("inserting membership for session %s: %w", snap.ID, err)
	}

	// The increment is issued after the insert and its failure never rolls
	// the insert back: a counter that drifts low is tolerable, a lost
	// membership record is not.
	if err := s.clubs.IncrementMemberCount(ctx, meta.ClubID, 1); err != nil {
		s.logger.Warn("member count increment failed after reconciliation",
			slog.String("clubId", meta.ClubID),
			slog.String("sessionId", snap.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("membership reconciled",
		slog.String("sessionId", snap.ID),
		slog.String("clubId", meta.ClubID),
		slog.String("participant", meta.ParticipantEmail),
	)
	return &Reconciliation{
		Outcome:    OutcomeReconciled,
		PaymentID:  snap.PaymentID,
		Membership: m,
	}, nil
}

func (s *CheckoutService) reconcileRegistration(ctx context.Context, snap *payments.SessionSnapshot) (*Reconciliation, error) {
	meta := snap.Metadata

	existing, err := s.registrations.FindByKey(ctx, meta.EventID, meta.ParticipantEmail)
	if err == nil {
		return &Reconciliation{
			Outcome:      OutcomeAlreadyReconciled,
			PaymentID:    existing.PaymentID,
			Registration: existing,
		}, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking registration for session %s: %w", snap.ID, err)
	}

	reg := &model.EventRegistration{
		EventID:          meta.EventID,
		EventName:        meta.EventName,
		ClubID:           meta.ClubID,
		EventManager:     meta.EventManager,
		ParticipantEmail: meta.ParticipantEmail,
		Status:           model.MemberStatusActive,
		PaymentID:        snap.PaymentID,
		JoinedAt:         time.Now(),
	}
	if err := s.registrations.Insert(ctx, reg); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return &Reconciliation{Outcome: OutcomeAlreadyReconciled, PaymentID: snap.PaymentID}, nil
		}
		return nil, fmt.Errorf("inserting registration for session %s: %w", snap.ID, err)
	}

	// No counter moves here. eventCount was incremented when the event was
	// created; registrations only produce the record itself.

	s.logger.Info("registration reconciled",
		slog.String("sessionId", snap.ID),
		slog.String("eventId", meta.EventID),
		slog.String("participant", meta.ParticipantEmail),
	)
	return &Reconciliation{
		Outcome:      OutcomeReconciled,
		PaymentID:    snap.PaymentID,
		Registration: reg,
	}, nil
}
