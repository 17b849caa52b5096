package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

// ChapterUnlockedEvent fans out to every instance when the auto-unlock engine
// flips a chapter to published. Instances use it to drop cached access
// decisions and to feed reader-facing live streams.
type ChapterUnlockedEvent struct {
	NovelSID   string `json:"novel_sid"`
	ChapterSID string `json:"chapter_sid"`
	Timestamp  int64  `json:"timestamp"`
}

// UnlockEventHandler is a callback for handling chapter unlock events.
type UnlockEventHandler func(ctx context.Context, event ChapterUnlockedEvent)

// UnlockEventPublisher publishes chapter unlock events.
type UnlockEventPublisher interface {
	PublishChapterUnlocked(ctx context.Context, novelSID, chapterSID string) error
}

// UnlockEventSubscriber receives chapter unlock events from other instances.
type UnlockEventSubscriber interface {
	Subscribe(ctx context.Context, handler UnlockEventHandler) error
}

const chapterUnlockChannel = "inkwell:chapter:unlock"

// RedisUnlockEventBus implements both UnlockEventPublisher and
// UnlockEventSubscriber using Redis Pub/Sub.
type RedisUnlockEventBus struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisUnlockEventBus(client *redis.Client, logger logger.Interface) *RedisUnlockEventBus {
	return &RedisUnlockEventBus{
		client: client,
		logger: logger,
	}
}

func (b *RedisUnlockEventBus) PublishChapterUnlocked(ctx context.Context, novelSID, chapterSID string) error {
	event := ChapterUnlockedEvent{
		NovelSID:   novelSID,
		ChapterSID: chapterSID,
		Timestamp:  time.Now().Unix(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, chapterUnlockChannel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish chapter unlock event",
			"novel_sid", novelSID,
			"chapter_sid", chapterSID,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("chapter unlock event published",
		"novel_sid", novelSID,
		"chapter_sid", chapterSID,
	)
	return nil
}

// Subscribe blocks until ctx is cancelled, invoking handler for every unlock
// event on the channel.
func (b *RedisUnlockEventBus) Subscribe(ctx context.Context, handler UnlockEventHandler) error {
	pubsub := b.client.Subscribe(ctx, chapterUnlockChannel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to chapter unlock events",
		"channel", chapterUnlockChannel,
	)

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("unlock event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("unlock event channel closed")
				return nil
			}

			var event ChapterUnlockedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal unlock event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			// Handle in a goroutine with a background context so slow
			// handlers cannot stall the event loop.
			go handler(context.Background(), event)
		}
	}
}
