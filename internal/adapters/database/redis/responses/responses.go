package responses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hillkeeper/hillkeeper/internal/domain/common/errorz"
	"github.com/hillkeeper/hillkeeper/internal/domain/entity"
	"github.com/redis/go-redis/v9"
)

// Storage keeps at most one response per (event, user) pair under
// response:<event id>:<user id>. Writes are unconditional overwrites — that
// is the whole toggle mechanism, there is no history.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func key(eventID, userID int64) string {
	return fmt.Sprintf("response:%d:%d", eventID, userID)
}

// Upsert overwrites whatever answer the user had before and refreshes the
// record's expiry.
func (s *Storage) Upsert(ctx context.Context, eventID int64, response entity.Response, expiration time.Duration) error {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		return err
	}
	if err = s.redis.Set(ctx, key(eventID, response.UserID), responseBytes, expiration).Err(); err != nil {
		return fmt.Errorf("%w: %v", errorz.StoreUnavailable, err)
	}
	return nil
}

// List returns every stored response for the event, in no particular order.
func (s *Storage) List(ctx context.Context, eventID int64) ([]entity.Response, error) {
	var result []entity.Response

	iter := s.redis.Scan(ctx, 0, fmt.Sprintf("response:%d:*", eventID), 0).Iterator()
	for iter.Next(ctx) {
		responseBytes, err := s.redis.Get(ctx, iter.Val()).Result()
		if errors.Is(err, redis.Nil) {
			// expired between scan and read
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errorz.StoreUnavailable, err)
		}

		var response entity.Response
		if err = json.Unmarshal([]byte(responseBytes), &response); err != nil {
			return nil, err
		}
		result = append(result, response)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.StoreUnavailable, err)
	}

	return result, nil
}
