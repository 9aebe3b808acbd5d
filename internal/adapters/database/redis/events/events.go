package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hillkeeper/hillkeeper/internal/domain/common/errorz"
	"github.com/hillkeeper/hillkeeper/internal/domain/entity"
	"github.com/redis/go-redis/v9"
)

// Storage keeps one record per posted attendance prompt under
// event:<date>:<message id>, expiring after the retention window. Expired and
// explicitly deleted records are indistinguishable to callers.
type Storage struct {
	redis *redis.Client
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
	}
}

func key(date time.Time, id int64) string {
	return fmt.Sprintf("event:%s:%d", dateKey(date), id)
}

func dateKey(date time.Time) string {
	return date.Format("2006-01-02")
}

func (s *Storage) Create(ctx context.Context, date time.Time, event entity.Event, expiration time.Duration) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err = s.redis.Set(ctx, key(date, event.ID), eventBytes, expiration).Err(); err != nil {
		return fmt.Errorf("%w: %v", errorz.StoreUnavailable, err)
	}
	return nil
}

// Get returns nil without an error when no record exists for the pair; a
// missing record and an expired one look the same.
func (s *Storage) Get(ctx context.Context, date time.Time, id int64) (*entity.Event, error) {
	eventBytes, err := s.redis.Get(ctx, key(date, id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.StoreUnavailable, err)
	}

	var event entity.Event
	if err = json.Unmarshal([]byte(eventBytes), &event); err != nil {
		return nil, err
	}

	return &event, nil
}

// ListIDs returns the ids of all prompts tracked for the given date, in no
// particular order.
func (s *Storage) ListIDs(ctx context.Context, date time.Time) ([]int64, error) {
	var ids []int64

	iter := s.redis.Scan(ctx, 0, fmt.Sprintf("event:%s:*", dateKey(date)), 0).Iterator()
	for iter.Next(ctx) {
		k := iter.Val()
		id, err := strconv.ParseInt(k[strings.LastIndexByte(k, ':')+1:], 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errorz.StoreUnavailable, err)
	}

	return ids, nil
}

// Delete is idempotent; removing a record that is already gone is not an error.
func (s *Storage) Delete(ctx context.Context, date time.Time, id int64) error {
	if err := s.redis.Del(ctx, key(date, id)).Err(); err != nil {
		return fmt.Errorf("%w: %v", errorz.StoreUnavailable, err)
	}
	return nil
}

// Clear removes every record for the given date and returns how many it deleted.
func (s *Storage) Clear(ctx context.Context, date time.Time) (int, error) {
	ids, err := s.ListIDs(ctx, date)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, id := range ids {
		if err = s.Delete(ctx, date, id); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
