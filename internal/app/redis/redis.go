package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cleaning-backend/internal/app/config"
	"cleaning-backend/internal/app/ds"
	"cleaning-backend/internal/app/negotiation"
	"cleaning-backend/internal/app/session"

	"github.com/redis/go-redis/v9"
)

const sessionPrefix = "session:"

// Client обёртка над go-redis: хранилище сессий и публикация событий по заявкам
type Client struct {
	cfg     config.RedisConfig
	client  *redis.Client
	channel string
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username:    cfg.User,
		Password:    cfg.Password,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cant ping redis: %w", err)
	}

	return Wrap(client, cfg), nil
}

func Wrap(client *redis.Client, cfg config.RedisConfig) *Client {
	channel := cfg.EventChannel
	if channel == "" {
		channel = "service_request_events"
	}
	return &Client{cfg: cfg, client: client, channel: channel}
}

func (c *Client) Close() error {
	return c.client.Close()
}

var (
	_ session.Store         = (*Client)(nil)
	_ negotiation.Notifier = (*Client)(nil)
)

func (c *Client) SaveSession(ctx context.Context, s ds.Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionPrefix+s.ID, data, ttl).Err()
}

func (c *Client) GetSession(ctx context.Context, id string) (*ds.Session, error) {
	val, err := c.client.Get(ctx, sessionPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, session.ErrNoSession
		}
		return nil, err
	}

	var s ds.Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.ID = id
	return &s, nil
}

func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionPrefix+id).Err()
}

// Notify публикует событие по заявке в канал событий
func (c *Client) Notify(ctx context.Context, event negotiation.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, c.channel, data).Err()
}
