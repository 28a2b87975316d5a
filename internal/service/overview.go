package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bushra/buzzhub/internal/model"
	"github.com/bushra/buzzhub/internal/repository"
)

// AdminOverview is the platform-wide aggregate served to admins.
type AdminOverview struct {
	TotalUsers         int64 `json:"totalUsers"`
	TotalClubs         int64 `json:"totalClubs"`
	TotalEvents        int64 `json:"totalEvents"`
	TotalMemberships   int64 `json:"totalMemberships"`
	TotalRegistrations int64 `json:"totalRegistrations"`
}

// ManagerOverview aggregates what a single manager owns.
type ManagerOverview struct {
	Clubs        []model.Club  `json:"clubs"`
	Events       []model.Event `json:"events"`
	TotalMembers int64         `json:"totalMembers"`
	TotalEvents  int64         `json:"totalEvents"`
}

// OverviewService serves the admin and manager dashboard aggregates.
type OverviewService struct {
	users         repository.UserRepository
	clubs         repository.ClubRepository
	events        repository.EventRepository
	memberships   repository.MembershipRepository
	registrations repository.RegistrationRepository
	logger        *slog.Logger
}

func NewOverviewService(
	users repository.UserRepository,
	clubs repository.ClubRepository,
	events repository.EventRepository,
	memberships repository.MembershipRepository,
	registrations repository.RegistrationRepository,
	logger *slog.Logger,
) *OverviewService {
	return &OverviewService{
		users:         users,
		clubs:         clubs,
		events:        events,
		memberships:   memberships,
		registrations: registrations,
		logger:        logger,
	}
}

// Admin returns platform-wide counts.
func (s *OverviewService) Admin(ctx context.Context) (*AdminOverview, error) {
	ov := &AdminOverview{}
	var err error

	if ov.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	if ov.TotalClubs, err = s.clubs.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting clubs: %w", err)
	}
	if ov.TotalEvents, err = s.events.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting events: %w", err)
	}
	if ov.TotalMemberships, err = s.memberships.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting memberships: %w", err)
	}
	if ov.TotalRegistrations, err = s.registrations.Count(ctx); err != nil {
		return nil, fmt.Errorf("counting registrations: %w", err)
	}

	return ov, nil
}

// Manager returns the clubs and events owned by managerEmail plus the summed
// advisory counters of those clubs.
func (s *OverviewService) Manager(ctx context.Context, managerEmail string) (*ManagerOverview, error) {
	clubs, err := s.clubs.ListByManager(ctx, managerEmail)
	if err != nil {
		return nil, fmt.Errorf("listing manager clubs: %w", err)
	}
	events, err := s.events.ListByManager(ctx, managerEmail)
	if err != nil {
		return nil, fmt.Errorf("listing manager events: %w", err)
	}

	ov := &ManagerOverview{
		Clubs:       clubs,
		Events:      events,
		TotalEvents: int64(len(events)),
	}
	for _, c := range clubs {
		ov.TotalMembers += c.MemberCount
	}
	return ov, nil
}
