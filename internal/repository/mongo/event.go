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

var _ repository.EventRepository = (*eventRepo)(nil)

type eventRepo struct {
	coll *mongo.Collection
}

// Events returns the event repository backed by the events collection.
func (s *Store) Events() repository.EventRepository {
	return &eventRepo{coll: s.db.Collection(collEvents)}
}

func (r *eventRepo) Insert(ctx context.Context, event *model.Event) error {
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("event", event.ID)
		}
		return apperror.Upstream("storage", fmt.Errorf("inserting event %s: %w", event.ID, err))
	}
	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("event", id)
		}
		return nil, apperror.Upstream("storage", fmt.Errorf("finding event %s: %w", id, err))
	}
	return &e, nil
}

func (r *eventRepo) List(ctx context.Context) ([]model.Event, error) {
	return r.list(ctx, bson.M{})
}

func (r *eventRepo) ListByManager(ctx context.Context, managerEmail string) ([]model.Event, error) {
	return r.list(ctx, bson.M{"managerEmail": managerEmail})
}

func (r *eventRepo) list(ctx context.Context, filter bson.M) ([]model.Event, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, apperror.Upstream("storage", fmt.Errorf("listing events: %w", err))
	}
	events := []model.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, apperror.Upstream("storage", fmt.Errorf("decoding events: %w", err))
	}
	return events, nil
}

// Update replaces the mutable fields of an event document.
func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": event.ID},
		bson.M{"$set": bson.M{
			"title":       event.Title,
			"description": event.Description,
			"location":    event.Location,
			"fee":         event.Fee,
			"startsAt":    event.StartsAt,
		}},
	)
	if err != nil {
		return apperror.Upstream("storage", fmt.Errorf("updating event %s: %w", event.ID, err))
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("event", event.ID)
	}
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperror.Upstream("storage", fmt.Errorf("deleting event %s: %w", id, err))
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("event", id)
	}
	return nil
}

func (r *eventRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperror.Upstream("storage", fmt.Errorf("counting events: %w", err))
	}
	return n, nil
}
