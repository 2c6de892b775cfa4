package repository

import (
	"context"
	"errors"
	"time"

	"github.com/docuchat/pdf-gpt-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// SessionStore persists session state with a TTL. Get returns (nil, nil)
// for an unknown session and types.ErrSessionExpired for one that outlived
// its TTL; callers treat both as a fresh empty session. Put is
// last-write-wins.
type SessionStore interface {
	Get(ctx context.Context, id string) (*types.SessionState, error)
	Put(ctx context.Context, state *types.SessionState, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

type sessionRecord struct {
	ID       string             `bson:"_id"`
	State    types.SessionState `bson:"state"`
	ExpireAt time.Time          `bson:"expire_at"`
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a Mongo-backed session store. The TTL index lets
// Mongo reap expired sessions on its own.
func NewSessionRepo(ctx context.Context, collection *mongo.Collection) (SessionStore, error) {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expire_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return nil, err
	}
	return &sessionRepo{
		collection: collection,
	}, nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*types.SessionState, error) {
	var record sessionRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// The TTL reaper runs periodically, a stale record can still be found
	if time.Now().After(record.ExpireAt) {
		return nil, types.ErrSessionExpired
	}
	return &record.State, nil
}

func (r *sessionRepo) Put(ctx context.Context, state *types.SessionState, ttl time.Duration) error {
	record := sessionRecord{
		ID:       state.ID,
		State:    *state,
		ExpireAt: time.Now().Add(ttl),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": state.ID}, record, opts)
	return err
}

func (r *sessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
