package service

// In-memory fakes for the repository and gateway interfaces. The services
// only ever see interfaces, so tests swap the Mongo store and the Stripe
// gateway for these without any network.

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bushra/buzzhub/internal/apperror"
	"github.com/bushra/buzzhub/internal/model"
	"github.com/bushra/buzzhub/internal/payments"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// ---------------------------------------------------------------------------
// users

type fakeUserRepo struct {
	users map[string]*model.User
	err   error // when set, every call fails with it
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Insert(_ context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[user.Email]; ok {
		return apperror.Conflict("user", user.Email)
	}
	stored := *user
	f.users[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) List(_ context.Context, emailFilter string) ([]model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := []model.User{}
	for _, u := range f.users {
		if emailFilter == "" || u.Email == emailFilter {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, email string, role model.Role) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.users[email]
	if !ok {
		return apperror.NotFound("user", email)
	}
	u.Role = role
	return nil
}

func (f *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.users)), f.err
}

// ---------------------------------------------------------------------------
// clubs

type fakeClubRepo struct {
	clubs  map[string]*model.Club
	incErr error // injected failure for counter increments
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{clubs: make(map[string]*model.Club)}
}

func (f *fakeClubRepo) Insert(_ context.Context, club *model.Club) error {
	stored := *club
	f.clubs[club.ID] = &stored
	return nil
}

func (f *fakeClubRepo) GetByID(_ context.Context, id string) (*model.Club, error) {
	c, ok := f.clubs[id]
	if !ok {
		return nil, apperror.NotFound("club", id)
	}
	result := *c
	return &result, nil
}

func (f *fakeClubRepo) List(_ context.Context) ([]model.Club, error) {
	result := []model.Club{}
	for _, c := range f.clubs {
		result = append(result, *c)
	}
	return result, nil
}

func (f *fakeClubRepo) ListByManager(_ context.Context, managerEmail string) ([]model.Club, error) {
	result := []model.Club{}
	for _, c := range f.clubs {
		if c.ManagerEmail == managerEmail {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (f *fakeClubRepo) IncrementMemberCount(_ context.Context, id string, delta int64) error {
	if f.incErr != nil {
		return f.incErr
	}
	c, ok := f.clubs[id]
	if !ok {
		return apperror.NotFound("club", id)
	}
	c.MemberCount += delta
	return nil
}

func (f *fakeClubRepo) IncrementEventCount(_ context.Context, id string, delta int64) error {
	if f.incErr != nil {
		return f.incErr
	}
	c, ok := f.clubs[id]
	if !ok {
		return apperror.NotFound("club", id)
	}
	c.EventCount += delta
	return nil
}

func (f *fakeClubRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.clubs)), nil
}

// ---------------------------------------------------------------------------
// events

type fakeEventRepo struct {
	events map[string]*model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*model.Event)}
}

func (f *fakeEventRepo) Insert(_ context.Context, event *model.Event) error {
	stored := *event
	f.events[event.ID] = &stored
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, apperror.NotFound("event", id)
	}
	result := *e
	return &result, nil
}

func (f *fakeEventRepo) List(_ context.Context) ([]model.Event, error) {
	result := []model.Event{}
	for _, e := range f.events {
		result = append(result, *e)
	}
	return result, nil
}

func (f *fakeEventRepo) ListByManager(_ context.Context, managerEmail string) ([]model.Event, error) {
	result := []model.Event{}
	for _, e := range f.events {
		if e.ManagerEmail == managerEmail {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *model.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return apperror.NotFound("event", event.ID)
	}
	stored := *event
	f.events[event.ID] = &stored
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return apperror.NotFound("event", id)
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.events)), nil
}

// ---------------------------------------------------------------------------
// memberships / registrations

type fakeMembershipRepo struct {
	records map[string]*model.ClubMembership // key: clubId|email
	// conflictOnInsert simulates the unique-index race: FindByKey reports
	// absent, but the insert itself collides.
	conflictOnInsert bool
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{records: make(map[string]*model.ClubMembership)}
}

func membershipKey(clubID, email string) string {
	return fmt.Sprintf("%s|%s", clubID, email)
}

func (f *fakeMembershipRepo) FindByKey(_ context.Context, clubID, email string) (*model.ClubMembership, error) {
	m, ok := f.records[membershipKey(clubID, email)]
	if !ok {
		return nil, apperror.NotFound("clubMember", clubID+"/"+email)
	}
	result := *m
	return &result, nil
}

func (f *fakeMembershipRepo) Insert(_ context.Context, m *model.ClubMembership) error {
	key := membershipKey(m.ClubID, m.ParticipantEmail)
	if f.conflictOnInsert {
		return apperror.Conflict("clubMember", m.ClubID+"/"+m.ParticipantEmail)
	}
	if _, ok := f.records[key]; ok {
		return apperror.Conflict("clubMember", m.ClubID+"/"+m.ParticipantEmail)
	}
	stored := *m
	f.records[key] = &stored
	return nil
}

func (f *fakeMembershipRepo) ListByParticipant(_ context.Context, email string) ([]model.ClubMembership, error) {
	result := []model.ClubMembership{}
	for _, m := range f.records {
		if m.ParticipantEmail == email {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (f *fakeMembershipRepo) UpdateStatus(_ context.Context, clubID, email string, status model.MemberStatus) error {
	m, ok := f.records[membershipKey(clubID, email)]
	if !ok {
		return apperror.NotFound("clubMember", clubID+"/"+email)
	}
	m.Status = status
	return nil
}

func (f *fakeMembershipRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

type fakeRegistrationRepo struct {
	records          map[string]*model.EventRegistration // key: eventId|email
	conflictOnInsert bool
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{records: make(map[string]*model.EventRegistration)}
}

func (f *fakeRegistrationRepo) FindByKey(_ context.Context, eventID, email string) (*model.EventRegistration, error) {
	r, ok := f.records[membershipKey(eventID, email)]
	if !ok {
		return nil, apperror.NotFound("eventRegister", eventID+"/"+email)
	}
	result := *r
	return &result, nil
}

func (f *fakeRegistrationRepo) Insert(_ context.Context, r *model.EventRegistration) error {
	key := membershipKey(r.EventID, r.ParticipantEmail)
	if f.conflictOnInsert {
		return apperror.Conflict("eventRegister", r.EventID+"/"+r.ParticipantEmail)
	}
	if _, ok := f.records[key]; ok {
		return apperror.Conflict("eventRegister", r.EventID+"/"+r.ParticipantEmail)
	}
	stored := *r
	f.records[key] = &stored
	return nil
}

func (f *fakeRegistrationRepo) ListByParticipant(_ context.Context, email string) ([]model.EventRegistration, error) {
	result := []model.EventRegistration{}
	for _, r := range f.records {
		if r.ParticipantEmail == email {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (f *fakeRegistrationRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

// ---------------------------------------------------------------------------
// payment gateway

type fakeGateway struct {
	sessions    map[string]*payments.SessionSnapshot
	url         string
	createErr   error
	retrieveErr error
	lastIntent  payments.CheckoutIntent
	creates     int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		sessions: make(map[string]*payments.SessionSnapshot),
		url:      "https://pay.example.com/session",
	}
}

func (f *fakeGateway) CreateSession(_ context.Context, intent payments.CheckoutIntent) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.lastIntent = intent
	f.creates++
	return f.url, nil
}

func (f *fakeGateway) RetrieveSession(_ context.Context, sessionID string) (*payments.SessionSnapshot, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	snap, ok := f.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", payments.ErrSessionNotFound, sessionID)
	}
	return snap, nil
}
