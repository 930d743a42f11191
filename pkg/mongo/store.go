package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/tokensession/pkg/session"
)

// document is the stored form of a session. The payload is kept as a JSON
// string so arbitrary keys never collide with Mongo operators.
type document struct {
	ID      string     `bson:"_id"`
	Session string     `bson:"session"`
	Expires *time.Time `bson:"expires,omitempty"`
}

// Store persists sessions in a Mongo collection. Expired documents are removed
// by a TTL index on "expires" (see EnsureIndexes) and filtered out on read
// until the server gets to them.
type Store struct {
	coll *mongo.Collection
	ttl  atomic.Int64
	now  func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTTL sets the default expiry. Zero stores sessions without expiry.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl.Store(int64(ttl))
	}
}

// WithClock overrides the clock used to compute expiry dates.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a session store on top of coll with a 30 minute default TTL.
func NewStore(coll *mongo.Collection, opts ...StoreOption) *Store {
	s := &Store{
		coll: coll,
		now:  time.Now,
	}
	s.ttl.Store(int64(30 * time.Minute))

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NewStoreFromConfig creates a store on the configured database and collection.
func NewStoreFromConfig(client *mongo.Client, cfg Config) *Store {
	coll := client.Database(cfg.Database).Collection(cfg.SessionCollection)
	return NewStore(coll, WithTTL(cfg.SessionTTL))
}

// TTL returns the default expiry applied by Set and Touch.
func (s *Store) TTL() time.Duration {
	return time.Duration(s.ttl.Load())
}

// SetTTL changes the default expiry for subsequent writes.
func (s *Store) SetTTL(ttl time.Duration) {
	s.ttl.Store(int64(ttl))
}

// EnsureIndexes creates the TTL index letting the server delete expired sessions.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires", Value: 1}},
		Options: options.Index().SetName("expires_ttl").SetExpireAfterSeconds(0),
	})
	if err != nil {
		return errors.Join(ErrFailedToCreateIndexes, err)
	}
	return nil
}

// Get returns nil for missing or expired sessions.
func (s *Store) Get(ctx context.Context, id string) (*session.Envelope, error) {
	filter := bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"expires": bson.M{"$exists": false}},
			bson.M{"expires": bson.M{"$gt": s.now()}},
		},
	}

	var doc document
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var env session.Envelope
	if err := json.Unmarshal([]byte(doc.Session), &env); err != nil {
		return nil, errors.Join(ErrInvalidSessionData, err)
	}
	return &env, nil
}

// Set upserts the session, expiring it after the current default TTL.
func (s *Store) Set(ctx context.Context, id string, env session.Envelope) error {
	if id == "" {
		return session.ErrInvalidSession
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return errors.Join(session.ErrInvalidSession, err)
	}

	doc := document{
		ID:      id,
		Session: string(raw),
		Expires: s.expires(),
	}

	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

// Touch moves the expiry to now plus the current default TTL.
func (s *Store) Touch(ctx context.Context, id string, _ session.Envelope) error {
	update := bson.M{"$unset": bson.M{"expires": ""}}
	if exp := s.expires(); exp != nil {
		update = bson.M{"$set": bson.M{"expires": *exp}}
	}

	_, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// Destroy deletes the session. Missing documents are not an error.
func (s *Store) Destroy(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *Store) expires() *time.Time {
	ttl := s.TTL()
	if ttl <= 0 {
		return nil
	}
	exp := s.now().Add(ttl).UTC()
	return &exp
}
