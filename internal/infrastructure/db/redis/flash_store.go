package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// flashTTL bounds how long an undelivered notice survives. Flash messages
// are meant for the very next response; anything older is abandoned.
const flashTTL = 15 * time.Minute

// FlashStore holds one-shot outcome messages as redis lists keyed by
// flash:<client>:<category>. Drain reads then deletes; the read and the
// delete are not atomic across concurrent requests from one client, an
// accepted narrow race at browser-level concurrency.
type FlashStore struct {
	client *redis.Client
}

func NewFlashStore(client *redis.Client) *FlashStore {
	return &FlashStore{client: client}
}

func (f *FlashStore) Notify(ctx context.Context, clientID, category, text string) error {
	key := flashKey(clientID, category)
	pipe := f.client.TxPipeline()
	pipe.RPush(ctx, key, text)
	pipe.Expire(ctx, key, flashTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("flash notify: %w", err)
	}
	return nil
}

func (f *FlashStore) Drain(ctx context.Context, clientID string, categories ...string) (map[string][]string, error) {
	out := make(map[string][]string, len(categories))
	for _, category := range categories {
		key := flashKey(clientID, category)

		msgs, err := f.client.LRange(ctx, key, 0, -1).Result()
		if err != nil {
			return nil, fmt.Errorf("flash drain: %w", err)
		}
		if len(msgs) == 0 {
			continue
		}
		if err := f.client.Del(ctx, key).Err(); err != nil {
			return nil, fmt.Errorf("flash clear: %w", err)
		}
		out[category] = msgs
	}
	return out, nil
}

func flashKey(clientID, category string) string {
	return fmt.Sprintf("flash:%s:%s", clientID, category)
}
