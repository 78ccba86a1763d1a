package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cvmotors/dealership-system/internal/core/domain"
)

// SessionStore keeps session records under session:<id> with a TTL matching
// the session lifetime, and a per-account set account_sessions:<account_id>
// so every session of an account can be revoked in one call.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Put(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), payload, ttl)
	pipe.SAdd(ctx, accountSessionsKey(session.AccountID), session.ID)
	pipe.Expire(ctx, accountSessionsKey(session.AccountID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		// A corrupt record is as good as no record.
		_ = s.client.Del(ctx, sessionKey(id)).Err()
		return nil, domain.ErrSessionNotFound
	}
	session.ID = id
	return &session, nil
}

func (s *SessionStore) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	session.ExpiresAt = expiresAt

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, sessionKey(id), payload, time.Until(expiresAt)).Err()
}

// Delete reports whether a record existed; a fabricated or already-revoked
// id removes nothing and says so.
func (s *SessionStore) Delete(ctx context.Context, id string) (bool, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}

	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, accountSessionsKey(session.AccountID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return del.Val() > 0, nil
}

// DeleteAll implements "log out everywhere": every session id registered
// for the account is removed along with the set itself. The count reflects
// records actually deleted; ids whose record already expired do not count.
func (s *SessionStore) DeleteAll(ctx context.Context, accountID string) (int, error) {
	ids, err := s.client.SMembers(ctx, accountSessionsKey(accountID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list account sessions: %w", err)
	}

	pipe := s.client.TxPipeline()
	dels := make([]*redis.IntCmd, 0, len(ids))
	for _, id := range ids {
		dels = append(dels, pipe.Del(ctx, sessionKey(id)))
	}
	pipe.Del(ctx, accountSessionsKey(accountID))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("delete account sessions: %w", err)
	}

	removed := 0
	for _, del := range dels {
		removed += int(del.Val())
	}
	return removed, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func accountSessionsKey(accountID string) string {
	return "account_sessions:" + accountID
}
