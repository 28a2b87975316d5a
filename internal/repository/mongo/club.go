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

var _ repository.ClubRepository = (*clubRepo)(nil)

type clubRepo struct {
	coll *mongo.Collection
}

// Clubs returns the club repository backed by the clubs collection.
func (s *Store) Clubs() repository.ClubRepository {
	return &clubRepo{coll: s.db.Collection(collClubs)}
}

func (r *clubRepo) Insert(ctx context.Context, club *model.Club) error {
	if _, err := r.coll.InsertOne(ctx, club); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("club", club.ID)
		}
		return apperror.Upstream("storage", fmt.Errorf("inserting club %s: %w", club.ID, err))
	}
	return nil
}

func (r *clubRepo) GetByID(ctx context.Context, id string) (*model.Club, error) {
	var c model.Club
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("club", id)
		}
		return nil, apperror.Upstream("storage", fmt.Errorf("finding club %s: %w", id, err))
	}
	return &c, nil
}

func (r *clubRepo) List(ctx context.Context) ([]model.Club, error) {
	return r.list(ctx, bson.M{})
}

func (r *clubRepo) ListByManager(ctx context.Context, managerEmail string) ([]model.Club, error) {
	return r.list(ctx, bson.M{"managerEmail": managerEmail})
}

func (r *clubRepo) list(ctx context.Context, filter bson.M) ([]model.Club, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, apperror.Upstream("storage", fmt.Errorf("listing clubs: %w", err))
	}
	clubs := []model.Club{}
	if err := cur.All(ctx, &clubs); err != nil {
		return nil, apperror.Upstream("storage", fmt.Errorf("decoding clubs: %w", err))
	}
	return clubs, nil
}

// IncrementMemberCount atomically adds delta to the club's memberCount.
// $inc is a single-document atomic operation, so no extra locking is needed
// even under concurrent reconciliations of different sessions.
func (r *clubRepo) IncrementMemberCount(ctx context.Context, id string, delta int64) error {
	return r.increment(ctx, id, "memberCount", delta)
}

// IncrementEventCount atomically adds delta to the club's eventCount.
func (r *clubRepo) IncrementEventCount(ctx context.Context, id string, delta int64) error {
	return r.increment(ctx, id, "eventCount", delta)
}

func (r *clubRepo) increment(ctx context.Context, id, field string, delta int64) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{field: delta}},
	)
	if err != nil {
		return apperror.Upstream("storage", fmt.Errorf("incrementing %s on club %s: %w", field, id, err))
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("club", id)
	}
	return nil
}

func (r *clubRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperror.Upstream("storage", fmt.Errorf("counting clubs: %w", err))
	}
	return n, nil
}
