// Package event publishes practice session lifecycle events.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/exam-simulator/internal/config"
)

// Type names a session lifecycle event.
type Type string

const (
	SessionStarted   Type = "session.started"
	SessionRevealed  Type = "session.revealed"
	SessionCompleted Type = "session.completed"
	SessionAbandoned Type = "session.abandoned"
)

// Event is the message published for a session transition.
type Event struct {
	Type       Type      `json:"type"`
	SessionID  string    `json:"sessionId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload,omitempty"`
}

// Publisher delivers session events to interested listeners.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// RedisPublisher publishes events over Redis PubSub, on a shared channel and
// on the session's own channel.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	log     zerolog.Logger
}

// NewRedisPublisher creates a publisher that writes to channel.
func NewRedisPublisher(rdb *redis.Client, channel string, log zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{
		rdb:     rdb,
		channel: channel,
		log:     log.With().Str("component", "event_publisher").Logger(),
	}
}

// Publish marshals ev and sends it to both channels.
func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pipe := p.rdb.Pipeline()
	pipe.Publish(ctx, p.channel, body)
	pipe.Publish(ctx, config.EventKey.SessionChannel(ev.SessionID), body)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}

	p.log.Debug().
		Str("type", string(ev.Type)).
		Str("session_id", ev.SessionID).
		Msg("Event published")
	return nil
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) error { return nil }
