package handlers

import (
	"context"
	"io"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/inkwell-press/inkwell/internal/infrastructure/pubsub"
	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

// EventsHandler streams chapter unlock events to connected readers over SSE.
// A single bus subscription fans out to every connected client, so slow
// clients only ever drop their own events.
type EventsHandler struct {
	subscriber pubsub.UnlockEventSubscriber
	logger     logger.Interface

	mu      sync.Mutex
	clients map[chan pubsub.ChapterUnlockedEvent]struct{}
}

func NewEventsHandler(subscriber pubsub.UnlockEventSubscriber, logger logger.Interface) *EventsHandler {
	return &EventsHandler{
		subscriber: subscriber,
		logger:     logger,
		clients:    make(map[chan pubsub.ChapterUnlockedEvent]struct{}),
	}
}

// Run consumes the unlock event bus until ctx is cancelled. Call it once from
// the server startup path.
func (h *EventsHandler) Run(ctx context.Context) error {
	return h.subscriber.Subscribe(ctx, func(_ context.Context, event pubsub.ChapterUnlockedEvent) {
		h.broadcast(event)
	})
}

func (h *EventsHandler) broadcast(event pubsub.ChapterUnlockedEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- event:
		default:
			// Client buffer full; drop rather than block the fan-out.
		}
	}
}

func (h *EventsHandler) register() chan pubsub.ChapterUnlockedEvent {
	ch := make(chan pubsub.ChapterUnlockedEvent, 16)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventsHandler) unregister(ch chan pubsub.ChapterUnlockedEvent) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// StreamUnlocks handles GET /events/unlocks. An optional novel query
// parameter narrows the stream to one novel's unlocks.
func (h *EventsHandler) StreamUnlocks(c *gin.Context) {
	novelSID := c.Query("novel")

	ch := h.register()
	defer h.unregister(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			if novelSID != "" && event.NovelSID != novelSID {
				return true
			}
			c.SSEvent("chapter_unlocked", event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
