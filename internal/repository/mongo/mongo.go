// Package mongo implements the repository interfaces on top of MongoDB.
//
// The data lives in five collections: users, clubs, events, clubMembers and
// eventRegister. One Store owns the client connection; it is created in
// main, passed down through the server, and closed on shutdown; never held
// as a package-level singleton.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collUsers         = "users"
	collClubs         = "clubs"
	collEvents        = "events"
	collClubMembers   = "clubMembers"
	collEventRegister = "eventRegister"
)

// Config configures the Mongo store.
//
// EnforceUniqueKeys creates compound unique indexes on the natural keys of
// clubMembers and eventRegister. With it enabled, the race window of the
// application-level check-then-insert collapses into a single atomic insert
// and a concurrent duplicate surfaces as apperror.ErrConflict. Disabled, the
// find-then-insert sequence in the service layer is the only guard.
type Config struct {
	URI               string
	Database          string
	EnforceUniqueKeys bool
	ConnectTimeout    time.Duration
}

// Store wraps a mongo client and provides the repository implementations.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB, verifies the connection, and creates indexes.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}

	// Connect does not dial eagerly; Ping forces a round trip so a bad URI
	// or unreachable cluster fails at startup instead of on the first query.
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging: %w", err)
	}

	s := &Store{
		client: client,
		db:     client.Database(cfg.Database),
	}

	if err := s.ensureIndexes(connectCtx, cfg.EnforceUniqueKeys); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: creating indexes: %w", err)
	}

	return s, nil
}

// Close disconnects the underlying client. Call on server shutdown.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// ensureIndexes creates the indexes the queries depend on. CreateOne is
// idempotent for an identical index spec, so this is safe on every startup.
func (s *Store) ensureIndexes(ctx context.Context, uniqueKeys bool) error {
	_, err := s.db.Collection(collUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	memberKeys := mongo.IndexModel{
		Keys: bson.D{{Key: "clubId", Value: 1}, {Key: "participantEmail", Value: 1}},
	}
	registerKeys := mongo.IndexModel{
		Keys: bson.D{{Key: "eventId", Value: 1}, {Key: "participantEmail", Value: 1}},
	}
	if uniqueKeys {
		memberKeys.Options = options.Index().SetUnique(true)
		registerKeys.Options = options.Index().SetUnique(true)
	}

	if _, err := s.db.Collection(collClubMembers).Indexes().CreateOne(ctx, memberKeys); err != nil {
		return fmt.Errorf("clubMembers key index: %w", err)
	}
	if _, err := s.db.Collection(collEventRegister).Indexes().CreateOne(ctx, registerKeys); err != nil {
		return fmt.Errorf("eventRegister key index: %w", err)
	}

	return nil
}
