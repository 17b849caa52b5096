package pubsub

import (
	"context"

	"github.com/inkwell-press/inkwell/internal/shared/logger"
)

// BodyEvictor drops a cached chapter body by SID.
type BodyEvictor interface {
	EvictBody(ctx context.Context, chapterSID string)
}

// InvalidationSink receives unlock signals after the batch commits. It evicts
// the local body cache and fans the event out to other instances; both are
// best-effort because the store already holds the truth.
type InvalidationSink struct {
	evictor   BodyEvictor
	publisher UnlockEventPublisher
	logger    logger.Interface
}

func NewInvalidationSink(evictor BodyEvictor, publisher UnlockEventPublisher, logger logger.Interface) *InvalidationSink {
	return &InvalidationSink{
		evictor:   evictor,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *InvalidationSink) ChapterUnlocked(ctx context.Context, novelSID, chapterSID string) {
	s.evictor.EvictBody(ctx, chapterSID)

	if err := s.publisher.PublishChapterUnlocked(ctx, novelSID, chapterSID); err != nil {
		s.logger.Warnw("unlock event delivery failed",
			"novel_sid", novelSID,
			"chapter_sid", chapterSID,
			"error", err,
		)
	}
}
