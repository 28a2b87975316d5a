package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/bushra/buzzhub/internal/apperror"
	"github.com/bushra/buzzhub/internal/model"
	"github.com/bushra/buzzhub/internal/repository"
)

// ClubService handles clubs and free (non-paid) club joins. Paid joins go
// through the CheckoutService instead.
type ClubService struct {
	clubs       repository.ClubRepository
	memberships repository.MembershipRepository
	logger      *slog.Logger
}

func NewClubService(
	clubs repository.ClubRepository,
	memberships repository.MembershipRepository,
	logger *slog.Logger,
) *ClubService {
	return &ClubService{clubs: clubs, memberships: memberships, logger: logger}
}

// Create validates and stores a new club. The counters start at zero and the
// status at pending regardless of what the client sent; both are maintained
// server-side only.
func (s *ClubService) Create(ctx context.Context, club *model.Club, managerEmail string) (*model.Club, error) {
	club.Name = strings.TrimSpace(club.Name)
	if club.Name == "" {
		return nil, apperror.ValidationFailed("name", "club name is required")
	}
	if club.Fee < 0 {
		return nil, apperror.ValidationFailed("fee", "fee cannot be negative")
	}

	club.ID = xid.New().String()
	club.ManagerEmail = managerEmail
	club.Status = model.ClubStatusPending
	club.MemberCount = 0
	club.EventCount = 0
	club.CreatedAt = time.Now()

	if err := s.clubs.Insert(ctx, club); err != nil {
		s.logger.Error("failed to create club",
			slog.String("name", club.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating club: %w", err)
	}

	s.logger.Info("club created",
		slog.String("id", club.ID),
		slog.String("manager", managerEmail),
	)
	return club, nil
}

// GetByID retrieves a club. Returns apperror.ErrNotFound if it doesn't exist.
func (s *ClubService) GetByID(ctx context.Context, id string) (*model.Club, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "club ID is required")
	}
	return s.clubs.GetByID(ctx, id)
}

// List returns all clubs.
func (s *ClubService) List(ctx context.Context) ([]model.Club, error) {
	clubs, err := s.clubs.List(ctx)
	if err != nil {
		s.logger.Error("failed to list clubs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing clubs: %w", err)
	}
	return clubs, nil
}

// Join creates a free membership for (clubID, participantEmail).
//
// Same check-then-insert sequence as paid reconciliation: at most one
// membership per key pair, then one atomic memberCount increment. A failed
// increment is logged and swallowed; the membership document is the
// authoritative record, the counter is advisory.
func (s *ClubService) Join(ctx context.Context, clubID, participantEmail string) (*model.ClubMembership, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, apperror.ValidationFailed("clubId", "club ID is required")
	}

	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		return nil, err
	}

	if _, err := s.memberships.FindByKey(ctx, clubID, participantEmail); err == nil {
		return nil, apperror.Conflict("clubMember", clubID+"/"+participantEmail)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking membership: %w", err)
	}

	m := &model.ClubMembership{
		ClubID:           clubID,
		ClubName:         club.Name,
		ParticipantEmail: participantEmail,
		Status:           model.MemberStatusActive,
		JoinedAt:         time.Now(),
	}
	if err := s.memberships.Insert(ctx, m); err != nil {
		return nil, fmt.Errorf("joining club: %w", err)
	}

	if err := s.clubs.IncrementMemberCount(ctx, clubID, 1); err != nil {
		// The membership is already durable; losing the increment leaves
		// the counter low, which is the tolerated failure mode.
		s.logger.Warn("member count increment failed after join",
			slog.String("clubId", clubID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("member joined club",
		slog.String("clubId", clubID),
		slog.String("participant", participantEmail),
	)
	return m, nil
}

// Memberships lists a participant's club memberships.
func (s *ClubService) Memberships(ctx context.Context, participantEmail string) ([]model.ClubMembership, error) {
	return s.memberships.ListByParticipant(ctx, participantEmail)
}
