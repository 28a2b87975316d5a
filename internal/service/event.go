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

// EventService handles events and free event registrations.
type EventService struct {
	events        repository.EventRepository
	clubs         repository.ClubRepository
	registrations repository.RegistrationRepository
	logger        *slog.Logger
}

func NewEventService(
	events repository.EventRepository,
	clubs repository.ClubRepository,
	registrations repository.RegistrationRepository,
	logger *slog.Logger,
) *EventService {
	return &EventService{
		events:        events,
		clubs:         clubs,
		registrations: registrations,
		logger:        logger,
	}
}

// Create validates and stores a new event, then bumps the owning club's
// eventCount. Event registration later does NOT touch any counter; the
// increment happens here, once, at creation.
func (s *EventService) Create(ctx context.Context, event *model.Event, managerEmail string) (*model.Event, error) {
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" {
		return nil, apperror.ValidationFailed("title", "event title is required")
	}
	event.ClubID = strings.TrimSpace(event.ClubID)
	if event.ClubID == "" {
		return nil, apperror.ValidationFailed("clubId", "club ID is required")
	}
	if event.Fee < 0 {
		return nil, apperror.ValidationFailed("fee", "fee cannot be negative")
	}

	if _, err := s.clubs.GetByID(ctx, event.ClubID); err != nil {
		return nil, err
	}

	event.ID = xid.New().String()
	event.ManagerEmail = managerEmail
	event.CreatedAt = time.Now()

	if err := s.events.Insert(ctx, event); err != nil {
		s.logger.Error("failed to create event",
			slog.String("title", event.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating event: %w", err)
	}

	if err := s.clubs.IncrementEventCount(ctx, event.ClubID, 1); err != nil {
		s.logger.Warn("event count increment failed after create",
			slog.String("clubId", event.ClubID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("event created",
		slog.String("id", event.ID),
		slog.String("clubId", event.ClubID),
	)
	return event, nil
}

// GetByID retrieves an event. Returns apperror.ErrNotFound if it doesn't exist.
func (s *EventService) GetByID(ctx context.Context, id string) (*model.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "event ID is required")
	}
	return s.events.GetByID(ctx, id)
}

// List returns all events.
func (s *EventService) List(ctx context.Context) ([]model.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		s.logger.Error("failed to list events", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return events, nil
}

// Update modifies an event. Only the event's own manager may change it;
// the role gate checks the role, this checks ownership.
func (s *EventService) Update(ctx context.Context, id string, updated *model.Event, managerEmail string) (*model.Event, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.ManagerEmail != managerEmail {
		return nil, apperror.Forbidden("only the event's manager can modify it")
	}

	if title := strings.TrimSpace(updated.Title); title != "" {
		event.Title = title
	}
	if updated.Description != "" {
		event.Description = updated.Description
	}
	if updated.Location != "" {
		event.Location = updated.Location
	}
	// Zero means "not provided" here; a paid event cannot be made free
	// through a partial update.
	if updated.Fee > 0 {
		event.Fee = updated.Fee
	}
	if !updated.StartsAt.IsZero() {
		event.StartsAt = updated.StartsAt
	}

	if err := s.events.Update(ctx, event); err != nil {
		s.logger.Error("failed to update event",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating event: %w", err)
	}

	s.logger.Info("event updated", slog.String("id", id))
	return event, nil
}

// Delete removes an event. Only its manager may delete it. The owning club's
// eventCount is decremented to mirror the increment at creation.
func (s *EventService) Delete(ctx context.Context, id, managerEmail string) error {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.ManagerEmail != managerEmail {
		return apperror.Forbidden("only the event's manager can delete it")
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	if err := s.clubs.IncrementEventCount(ctx, event.ClubID, -1); err != nil {
		s.logger.Warn("event count decrement failed after delete",
			slog.String("clubId", event.ClubID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.Info("event deleted", slog.String("id", id))
	return nil
}

// Register creates a free registration for (eventID, participantEmail).
// Same at-most-one semantics as club joins; no counter is touched.
func (s *EventService) Register(ctx context.Context, eventID, participantEmail string) (*model.EventRegistration, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, apperror.ValidationFailed("eventId", "event ID is required")
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if _, err := s.registrations.FindByKey(ctx, eventID, participantEmail); err == nil {
		return nil, apperror.Conflict("eventRegister", eventID+"/"+participantEmail)
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking registration: %w", err)
	}

	reg := &model.EventRegistration{
		EventID:          eventID,
		EventName:        event.Title,
		ClubID:           event.ClubID,
		EventManager:     event.ManagerEmail,
		ParticipantEmail: participantEmail,
		Status:           model.MemberStatusActive,
		JoinedAt:         time.Now(),
	}
	if err := s.registrations.Insert(ctx, reg); err != nil {
		return nil, fmt.Errorf("registering for event: %w", err)
	}

	s.logger.Info("participant registered for event",
		slog.String("eventId", eventID),
		slog.String("participant", participantEmail),
	)
	return reg, nil
}

// Registrations lists a participant's event registrations.
func (s *EventService) Registrations(ctx context.Context, participantEmail string) ([]model.EventRegistration, error) {
	return s.registrations.ListByParticipant(ctx, participantEmail)
}
