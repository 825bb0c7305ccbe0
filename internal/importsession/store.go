// Package importsession keeps the state of an import run between the
// preview and commit requests. The parsed batch lives in Redis under a
// session id with a TTL, so a preview the user abandons cleans itself up
// and any API replica can serve the commit.
package importsession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Datavoxx/daglig-rad-sub001/internal/domain"
	"github.com/Datavoxx/daglig-rad-sub001/internal/sheetimport"
)

// ErrNotFound means the session id is unknown or the session expired.
var ErrNotFound = errors.New("import session not found or expired")

// DefaultTTL is how long a previewed import stays committable.
const DefaultTTL = 30 * time.Minute

// Session is one previewed import run awaiting commit.
type Session struct {
	ID           string                `json:"id"`
	OrgID        string                `json:"org_id"`
	FileName     string                `json:"file_name"`
	Structure    sheetimport.Structure `json:"structure"`
	NewEstimates []*domain.Estimate    `json:"new_estimates"`
	Duplicates   int                   `json:"duplicates"`
	SkippedNoKey int                   `json:"skipped_no_key"`
	CreatedAt    time.Time             `json:"created_at"`
}

// Batch converts the session into the orchestrator's input.
func (s *Session) Batch() *sheetimport.Batch {
	return &sheetimport.Batch{
		NewEstimates: s.NewEstimates,
		Duplicates:   s.Duplicates,
		SkippedNoKey: s.SkippedNoKey,
	}
}

// Store persists sessions in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a session store. A non-positive ttl gets DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

func key(id string) string { return "importsession:" + id }

// Save stores the session under a fresh id and returns it.
func (s *Store) Save(ctx context.Context, sess *Session) (string, error) {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	sess.CreatedAt = time.Now().UTC()

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("marshal import session: %w", err)
	}
	if err := s.client.Set(ctx, key(sess.ID), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store import session: %w", err)
	}
	return sess.ID, nil
}

// Get loads a session by id.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load import session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode import session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session after commit. Missing keys are not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, key(id)).Err()
}
