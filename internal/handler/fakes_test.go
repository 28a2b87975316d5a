package handler_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/bushra/buzzhub/internal/apperror"
	"github.com/bushra/buzzhub/internal/model"
	"github.com/bushra/buzzhub/internal/payments"
)

// In-memory repository fakes. They cover exactly what the handlers under
// test reach for; storage edge cases live in the service tests.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memUsers struct {
	users map[string]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]*model.User)}
}

func (m *memUsers) Insert(ctx context.Context, user *model.User) error {
	if _, ok := m.users[user.Email]; ok {
		return apperror.Conflict("user", user.Email)
	}
	u := *user
	m.users[user.Email] = &u
	return nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) List(ctx context.Context, emailFilter string) ([]model.User, error) {
	var out []model.User
	for _, u := range m.users {
		if emailFilter != "" && u.Email != emailFilter {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (m *memUsers) UpdateRole(ctx context.Context, email string, role model.Role) error {
	u, ok := m.users[email]
	if !ok {
		return apperror.NotFound("user", email)
	}
	u.Role = role
	return nil
}

func (m *memUsers) Count(ctx context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

type memClubs struct {
	clubs map[string]*model.Club
}

func newMemClubs() *memClubs {
	return &memClubs{clubs: make(map[string]*model.Club)}
}

func (m *memClubs) Insert(ctx context.Context, club *model.Club) error {
	cp := *club
	m.clubs[club.ID] = &cp
	return nil
}

func (m *memClubs) GetByID(ctx context.Context, id string) (*model.Club, error) {
	c, ok := m.clubs[id]
	if !ok {
		return nil, apperror.NotFound("club", id)
	}
	cp := *c
	return &cp, nil
}

func (m *memClubs) List(ctx context.Context) ([]model.Club, error) {
	var out []model.Club
	for _, c := range m.clubs {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memClubs) ListByManager(ctx context.Context, managerEmail string) ([]model.Club, error) {
	var out []model.Club
	for _, c := range m.clubs {
		if c.ManagerEmail == managerEmail {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memClubs) IncrementMemberCount(ctx context.Context, id string, delta int64) error {
	c, ok := m.clubs[id]
	if !ok {
		return apperror.NotFound("club", id)
	}
	c.MemberCount += delta
	return nil
}

func (m *memClubs) IncrementEventCount(ctx context.Context, id string, delta int64) error {
	c, ok := m.clubs[id]
	if !ok {
		return apperror.NotFound("club", id)
	}
	c.EventCount += delta
	return nil
}

func (m *memClubs) Count(ctx context.Context) (int64, error) {
	return int64(len(m.clubs)), nil
}

type memEvents struct {
	events map[string]*model.Event
}

func newMemEvents() *memEvents {
	return &memEvents{events: make(map[string]*model.Event)}
}

func (m *memEvents) Insert(ctx context.Context, event *model.Event) error {
	cp := *event
	m.events[event.ID] = &cp
	return nil
}

func (m *memEvents) GetByID(ctx context.Context, id string) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, apperror.NotFound("event", id)
	}
	cp := *e
	return &cp, nil
}

func (m *memEvents) List(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	for _, e := range m.events {
		out = append(out, *e)
	}
	return out, nil
}

func (m *memEvents) ListByManager(ctx context.Context, managerEmail string) ([]model.Event, error) {
	var out []model.Event
	for _, e := range m.events {
		if e.ManagerEmail == managerEmail {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memEvents) Update(ctx context.Context, event *model.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return apperror.NotFound("event", event.ID)
	}
	cp := *event
	m.events[event.ID] = &cp
	return nil
}

func (m *memEvents) Delete(ctx context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return apperror.NotFound("event", id)
	}
	delete(m.events, id)
	return nil
}

func (m *memEvents) Count(ctx context.Context) (int64, error) {
	return int64(len(m.events)), nil
}

type memMemberships struct {
	records map[string]*model.ClubMembership
}

func newMemMemberships() *memMemberships {
	return &memMemberships{records: make(map[string]*model.ClubMembership)}
}

func membershipKey(clubID, email string) string { return clubID + "|" + email }

func (m *memMemberships) FindByKey(ctx context.Context, clubID, participantEmail string) (*model.ClubMembership, error) {
	r, ok := m.records[membershipKey(clubID, participantEmail)]
	if !ok {
		return nil, apperror.NotFound("membership", clubID)
	}
	cp := *r
	return &cp, nil
}

func (m *memMemberships) Insert(ctx context.Context, rec *model.ClubMembership) error {
	key := membershipKey(rec.ClubID, rec.ParticipantEmail)
	if _, ok := m.records[key]; ok {
		return apperror.Conflict("membership", key)
	}
	cp := *rec
	m.records[key] = &cp
	return nil
}

func (m *memMemberships) ListByParticipant(ctx context.Context, email string) ([]model.ClubMembership, error) {
	var out []model.ClubMembership
	for _, r := range m.records {
		if r.ParticipantEmail == email {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memMemberships) UpdateStatus(ctx context.Context, clubID, participantEmail string, status model.MemberStatus) error {
	r, ok := m.records[membershipKey(clubID, participantEmail)]
	if !ok {
		return apperror.NotFound("membership", clubID)
	}
	r.Status = status
	return nil
}

func (m *memMemberships) Count(ctx context.Context) (int64, error) {
	return int64(len(m.records)), nil
}

type memRegistrations struct {
	records map[string]*model.EventRegistration
}

func newMemRegistrations() *memRegistrations {
	return &memRegistrations{records: make(map[string]*model.EventRegistration)}
}

func (m *memRegistrations) FindByKey(ctx context.Context, eventID, participantEmail string) (*model.EventRegistration, error) {
	r, ok := m.records[membershipKey(eventID, participantEmail)]
	if !ok {
		return nil, apperror.NotFound("registration", eventID)
	}
	cp := *r
	return &cp, nil
}

func (m *memRegistrations) Insert(ctx context.Context, rec *model.EventRegistration) error {
	key := membershipKey(rec.EventID, rec.ParticipantEmail)
	if _, ok := m.records[key]; ok {
		return apperror.Conflict("registration", key)
	}
	cp := *rec
	m.records[key] = &cp
	return nil
}

func (m *memRegistrations) ListByParticipant(ctx context.Context, email string) ([]model.EventRegistration, error) {
	var out []model.EventRegistration
	for _, r := range m.records {
		if r.ParticipantEmail == email {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRegistrations) Count(ctx context.Context) (int64, error) {
	return int64(len(m.records)), nil
}

// mockGateway records the last intent and serves canned session snapshots.
type mockGateway struct {
	sessions    map[string]*payments.SessionSnapshot
	lastIntent  payments.CheckoutIntent
	sessionURL  string
	retrieveErr error
}

func newMockGateway() *mockGateway {
	return &mockGateway{
		sessions:   make(map[string]*payments.SessionSnapshot),
		sessionURL: "https://checkout.example.test/cs_123",
	}
}

func (g *mockGateway) CreateSession(ctx context.Context, intent payments.CheckoutIntent) (string, error) {
	g.lastIntent = intent
	return g.sessionURL, nil
}

func (g *mockGateway) RetrieveSession(ctx context.Context, sessionID string) (*payments.SessionSnapshot, error) {
	if g.retrieveErr != nil {
		return nil, g.retrieveErr
	}
	snap, ok := g.sessions[sessionID]
	if !ok {
		return nil, payments.ErrSessionNotFound
	}
	return snap, nil
}
