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

// compile-time check that *userRepo implements repository.UserRepository
var _ repository.UserRepository = (*userRepo)(nil)

type userRepo struct {
	coll *mongo.Collection
}

// Users returns the user repository backed by the users collection.
func (s *Store) Users() repository.UserRepository {
	return &userRepo{coll: s.db.Collection(collUsers)}
}

// Insert writes a new user document. The unique index on email turns a
// duplicate registration into apperror.ErrConflict, which the service layer
// reports as "already registered" rather than a failure.
func (r *userRepo) Insert(ctx context.Context, user *model.User) error {
	_, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperror.Conflict("user", user.Email)
		}
		return apperror.Upstream("storage", fmt.Errorf("inserting user %s: %w", user.Email, err))
	}
	return nil
}

// GetByEmail returns apperror.ErrNotFound when no user document exists.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, apperror.Upstream("storage", fmt.Errorf("finding user %s: %w", email, err))
	}
	return &u, nil
}

// List returns all users, or the single user matching emailFilter.
func (r *userRepo) List(ctx context.Context, emailFilter string) ([]model.User, error) {
	filter := bson.M{}
	if emailFilter != "" {
		filter["email"] = emailFilter
	}

	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, apperror.Upstream("storage", fmt.Errorf("listing users: %w", err))
	}

	users := []model.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, apperror.Upstream("storage", fmt.Errorf("decoding users: %w", err))
	}
	return users, nil
}

// UpdateRole sets the role field on the user with the given email.
func (r *userRepo) UpdateRole(ctx context.Context, email string, role model.Role) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": role}},
	)
	if err != nil {
		return apperror.Upstream("storage", fmt.Errorf("updating role for %s: %w", email, err))
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("user", email)
	}
	return nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperror.Upstream("storage", fmt.Errorf("counting users: %w", err))
	}
	return n, nil
}
