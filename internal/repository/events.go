package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const DefaultChannelPrefix = "room"

type EventRepository interface {
	Publish(ctx context.Context, event *entity.RoomEvent) error
}

type redisEvents struct {
	client *redis.Client
	prefix string
}

// NewEventRepository publishes room events on a pub/sub channel per room. Nothing is stored.
func NewEventRepository(client *redis.Client, prefix string) EventRepository {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}

	return &redisEvents{
		client: client,
		prefix: prefix,
	}
}

func (that *redisEvents) Publish(ctx context.Context, event *entity.RoomEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal room event: %w", err)
	}

	if err = that.client.Publish(ctx, ChannelName(that.prefix, event.RoomID), eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish room event: %w", err)
	}

	return nil
}

func ChannelName(prefix, roomID string) string {
	return prefix + ":" + roomID
}

type nopEvents struct{}

// NewNopEventRepository drops every event. It is used when no Redis is configured.
func NewNopEventRepository() EventRepository {
	return nopEvents{}
}

func (nopEvents) Publish(context.Context, *entity.RoomEvent) error {
	return nil
}
