package redis

import (
	"context"
	"fmt"

	"github.com/hillkeeper/hillkeeper/internal/adapters/database/redis/events"
	"github.com/hillkeeper/hillkeeper/internal/adapters/database/redis/responses"
	"github.com/redis/go-redis/v9"
)

// Client bundles the attendance state storages. Events and responses live in
// separate redis databases so a Clear on one namespace can never touch the
// other.
type Client struct {
	Events    *events.Storage
	Responses *responses.Storage

	eventsDB    *redis.Client
	responsesDB *redis.Client
}

type Options struct {
	Host     string
	Port     string
	Password string
}

func New(opts Options) (*Client, error) {
	eventsDB := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       0,
	})
	if err := eventsDB.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping events storage: %w", err)
	}

	responsesDB := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       1,
	})
	if err := responsesDB.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping responses storage: %w", err)
	}

	return &Client{
		Events:      events.NewStorage(eventsDB),
		Responses:   responses.NewStorage(responsesDB),
		eventsDB:    eventsDB,
		responsesDB: responsesDB,
	}, nil
}

// Ping reports whether both storages are reachable. Used by the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.eventsDB.Ping(ctx).Err(); err != nil {
		return err
	}
	return c.responsesDB.Ping(ctx).Err()
}
