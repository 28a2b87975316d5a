// Package repository declares the storage interfaces the service layer
// depends on. The mongo subpackage implements them; tests use in-memory
// fakes.
package repository

import (
	"context"

	"github.com/bushra/buzzhub/internal/model"
)

// UserRepository stores user accounts keyed by email.
type UserRepository interface {
	// Insert writes a new user document. Fails with apperror.ErrConflict if
	// a user with the same email already exists.
	Insert(ctx context.Context, user *model.User) error
	// GetByEmail returns apperror.ErrNotFound when no document exists.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// List returns all users, or only the one matching emailFilter when it
	// is non-empty.
	List(ctx context.Context, emailFilter string) ([]model.User, error)
	UpdateRole(ctx context.Context, email string, role model.Role) error
	Count(ctx context.Context) (int64, error)
}

// ClubRepository stores club documents. The counter methods are atomic
// add-to-field operations; they never read-modify-write.
type ClubRepository interface {
	Insert(ctx context.Context, club *model.Club) error
	GetByID(ctx context.Context, id string) (*model.Club, error)
	List(ctx context.Context) ([]model.Club, error)
	ListByManager(ctx context.Context, managerEmail string) ([]model.Club, error)
	IncrementMemberCount(ctx context.Context, id string, delta int64) error
	IncrementEventCount(ctx context.Context, id string, delta int64) error
	Count(ctx context.Context) (int64, error)
}

// EventRepository stores event documents.
type EventRepository interface {
	Insert(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	ListByManager(ctx context.Context, managerEmail string) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// MembershipRepository stores club memberships keyed by
// (clubId, participantEmail).
type MembershipRepository interface {
	// FindByKey returns apperror.ErrNotFound when no membership exists for
	// the pair. This is the existence check of the check-then-insert
	// sequence; see Insert.
	FindByKey(ctx context.Context, clubID, participantEmail string) (*model.ClubMembership, error)
	// Insert fails with apperror.ErrConflict on a duplicate (clubId,
	// participantEmail) key when the store enforces unique keys.
	Insert(ctx context.Context, m *model.ClubMembership) error
	ListByParticipant(ctx context.Context, email string) ([]model.ClubMembership, error)
	UpdateStatus(ctx context.Context, clubID, participantEmail string, status model.MemberStatus) error
	Count(ctx context.Context) (int64, error)
}

// RegistrationRepository stores event registrations keyed by
// (eventId, participantEmail).
type RegistrationRepository interface {
	FindByKey(ctx context.Context, eventID, participantEmail string) (*model.EventRegistration, error)
	Insert(ctx context.Context, r *model.EventRegistration) error
	ListByParticipant(ctx context.Context, email string) ([]model.EventRegistration, error)
	Count(ctx context.Context) (int64, error)
}
