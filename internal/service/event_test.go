package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bushra/buzzhub/internal/apperror"
	"github.com/bushra/buzzhub/internal/model"
)

func newEventFixture(t *testing.T) (*EventService, *fakeEventRepo, *fakeClubRepo, *fakeRegistrationRepo) {
	t.Helper()
	events := newFakeEventRepo()
	clubs := newFakeClubRepo()
	registrations := newFakeRegistrationRepo()
	return NewEventService(events, clubs, registrations, testLogger()), events, clubs, registrations
}

func TestEventCreate_IncrementsEventCount(t *testing.T) {
	svc, events, clubs, _ := newEventFixture(t)
	clubs.clubs["c1"] = &model.Club{ID: "c1", Name: "Chess"}

	event, err := svc.Create(context.Background(), &model.Event{
		Title:  "Blitz Night",
		ClubID: "c1",
		Fee:    5,
	}, "manager@x.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if event.ID == "" {
		t.Error("expected event to have an ID")
	}
	if event.ManagerEmail != "manager@x.com" {
		t.Errorf("ManagerEmail = %q, want manager@x.com", event.ManagerEmail)
	}
	if _, ok := events.events[event.ID]; !ok {
		t.Error("event was not stored")
	}
	if got := clubs.clubs["c1"].EventCount; got != 1 {
		t.Errorf("eventCount = %d, want 1", got)
	}
}

func TestEventCreate_UnknownClub(t *testing.T) {
	svc, _, _, _ := newEventFixture(t)

	_, err := svc.Create(context.Background(), &model.Event{Title: "X", ClubID: "nope"}, "m@x.com")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Create() error = %v, want ErrNotFound", err)
	}
}

func TestEventUpdate_OnlyOwningManager(t *testing.T) {
	svc, events, _, _ := newEventFixture(t)
	events.events["e1"] = &model.Event{ID: "e1", Title: "Blitz", ManagerEmail: "owner@x.com"}

	_, err := svc.Update(context.Background(), "e1", &model.Event{Title: "Renamed"}, "other@x.com")
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Update() by non-owner error = %v, want ErrForbidden", err)
	}

	updated, err := svc.Update(context.Background(), "e1", &model.Event{Title: "Renamed"}, "owner@x.com")
	if err != nil {
		t.Fatalf("Update() by owner error = %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("Title = %q, want Renamed", updated.Title)
	}
}

func TestEventDelete_DecrementsEventCount(t *testing.T) {
	svc, events, clubs, _ := newEventFixture(t)
	clubs.clubs["c1"] = &model.Club{ID: "c1", EventCount: 1}
	events.events["e1"] = &model.Event{ID: "e1", ClubID: "c1", ManagerEmail: "owner@x.com"}

	if err := svc.Delete(context.Background(), "e1", "owner@x.com"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := events.events["e1"]; ok {
		t.Error("event still stored after delete")
	}
	if got := clubs.clubs["c1"].EventCount; got != 0 {
		t.Errorf("eventCount = %d, want 0", got)
	}
}

func TestEventRegister_Free(t *testing.T) {
	svc, events, clubs, registrations := newEventFixture(t)
	clubs.clubs["c1"] = &model.Club{ID: "c1", EventCount: 1}
	events.events["e1"] = &model.Event{ID: "e1", ClubID: "c1", Title: "Blitz", ManagerEmail: "m@x.com"}

	reg, err := svc.Register(context.Background(), "e1", "a@x.com")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if reg.EventName != "Blitz" {
		t.Errorf("EventName = %q, want Blitz", reg.EventName)
	}
	if n := len(registrations.records); n != 1 {
		t.Errorf("registration records = %d, want 1", n)
	}
	// Registration must not move the club's counters.
	if got := clubs.clubs["c1"].EventCount; got != 1 {
		t.Errorf("eventCount = %d, want 1", got)
	}
	if got := clubs.clubs["c1"].MemberCount; got != 0 {
		t.Errorf("memberCount = %d, want 0", got)
	}
}

func TestEventRegister_DuplicateRejected(t *testing.T) {
	svc, events, clubs, _ := newEventFixture(t)
	clubs.clubs["c1"] = &model.Club{ID: "c1"}
	events.events["e1"] = &model.Event{ID: "e1", ClubID: "c1", Title: "Blitz"}

	if _, err := svc.Register(context.Background(), "e1", "a@x.com"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	if _, err := svc.Register(context.Background(), "e1", "a@x.com"); !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("second Register() error = %v, want ErrConflict", err)
	}
}
