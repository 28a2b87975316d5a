package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bushra/buzzhub/internal/apperror"
	"github.com/bushra/buzzhub/internal/model"
	"github.com/bushra/buzzhub/internal/repository"
)

var (
	_ repository.MembershipRepository   = (*membershipRepo)(nil)
	_ repository.RegistrationRepository = (*registrationRepo)(nil)
)

type membershipRepo struct {
	coll *mongo.Collection
}

// Memberships returns the membership repository backed by the clubMembers
// collection.
func (s *Store) Memberships() repository.MembershipRepository {
	return &membershipRepo{coll: s.db.Collection(collClubMembers)}
}

// FindByKey looks up a membership by its natural key. ErrNotFound here is the
// green light for the insert that follows it.
func (r *membershipRepo) FindByKey(ctx context.Context, clubID, participantEmail string) (*model.ClubMembership, error) {
	var m model.ClubMembership
	err := r.coll.FindOne(ctx, bson.M{
		"clubId":           clubID,
		"participantEmail": participantEmail,
	}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("clubMember", clubID+"/"+participantEmail)
		}
		return nil, apperror.Upstream("storage", fmt.Errorf("finding membership %s/%s: %w", clubID, participantEmail, err))
	}
	return &m, nil
}

// Insert writes a membership document. With unique keys enforced, a
// concurrent duplicate insert loses the race here and comes back as
// apperror.ErrConflict instead of a second document.
func (r *membershipRepo) Insert(ctx context.Context, m *model.ClubMembership) error {
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("clubMember", m.ClubID+"/"+m.ParticipantEmail)
		}
		return apperror.Upstream("storage", fmt.Errorf("inserting membership %s/%s: %w", m.ClubID, m.ParticipantEmail, err))
	}
	return nil
}

func (r *membershipRepo) ListByParticipant(ctx context.Context, email string) ([]model.ClubMembership, error) {
	cur, err := r.coll.Find(ctx, bson.M{"participantEmail": email})
	if err != nil {
		return nil, apperror.Upstream("storage", fmt.Errorf("listing memberships for %s: %w", email, err))
	}
	members := []model.ClubMembership{}
	if err := cur.All(ctx, &members); err != nil {
		return nil, apperror.Upstream("storage", fmt.Errorf("decoding memberships: %w", err))
	}
	return members, nil
}

func (r *membershipRepo) UpdateStatus(ctx context.Context, clubID, participantEmail string, status model.MemberStatus) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"clubId": clubID, "participantEmail": participantEmail},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return apperror.Upstream("storage", fmt.Errorf("updating membership status %s/%s: %w", clubID, participantEmail, err))
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("clubMember", clubID+"/"+participantEmail)
	}
	return nil
}

func (r *membershipRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperror.Upstream("storage", fmt.Errorf("counting memberships: %w", err))
	}
	return n, nil
}

type registrationRepo struct {
	coll *mongo.Collection
}

// Registrations returns the registration repository backed by the
// eventRegister collection.
func (s *Store) Registrations() repository.RegistrationRepository {
	return &registrationRepo{coll: s.db.Collection(collEventRegister)}
}

func (r *registrationRepo) FindByKey(ctx context.Context, eventID, participantEmail string) (*model.EventRegistration, error) {
	var reg model.EventRegistration
	err := r.coll.FindOne(ctx, bson.M{
		"eventId":          eventID,
		"participantEmail": participantEmail,
	}).Decode(&reg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("eventRegister", eventID+"/"+participantEmail)
		}
		return nil, apperror.Upstream("storage", fmt.Errorf("finding registration %s/%s: %w", eventID, participantEmail, err))
	}
	return &reg, nil
}

func (r *registrationRepo) Insert(ctx context.Context, reg *model.EventRegistration) error {
	if _, err := r.coll.InsertOne(ctx, reg); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("eventRegister", reg.EventID+"/"+reg.ParticipantEmail)
		}
		return apperror.Upstream("storage", fmt.Errorf("inserting registration %s/%s: %w", reg.EventID, reg.ParticipantEmail, err))
	}
	return nil
}

func (r *registrationRepo) ListByParticipant(ctx context.Context, email string) ([]model.EventRegistration, error) {
	cur, err := r.coll.Find(ctx, bson.M{"participantEmail": email})
	if err != nil {
		return nil, apperror.Upstream("storage", fmt.Errorf("listing registrations for %s: %w", email, err))
	}
	regs := []model.EventRegistration{}
	if err := cur.All(ctx, &regs); err != nil {
		return nil, apperror.Upstream("storage", fmt.Errorf("decoding registrations: %w", err))
	}
	return regs, nil
}

func (r *registrationRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperror.Upstream("storage", fmt.Errorf("counting registrations: %w", err))
	}
	return n, nil
}
