package chapter

import (
	"context"
	"time"

	"github.com/inkwell-press/inkwell/internal/domain/content"
)

// Repository persists chapters. Reads other than GetBody leave the body
// column unloaded: bodies are large and most callers only need metadata for
// access decisions and listings.
type Repository interface {
	Create(ctx context.Context, chapter *Chapter) error
	GetByID(ctx context.Context, chID uint) (*Chapter, error)
	GetBySID(ctx context.Context, sid string) (*Chapter, error)

	// GetBody fetches the chapter's rendered body on its own.
	GetBody(ctx context.Context, chID uint) (string, error)
	ListByVolumeID(ctx context.Context, volumeID uint) ([]*Chapter, error)
	ListByNovelID(ctx context.Context, novelID uint) ([]*Chapter, error)
	// Update persists the chapter's metadata, and the body too when the
	// aggregate carries a non-empty one. Aggregates loaded without their
	// body can be updated without clobbering it.
	Update(ctx context.Context, chapter *Chapter) error
	Delete(ctx context.Context, chID uint) error

	// ListPaidByNovelOrdered returns every paid-mode chapter of the novel
	// sorted by reading order ascending. The auto-unlock engine depends on
	// this ordering.
	ListPaidByNovelOrdered(ctx context.Context, novelID uint) ([]*Chapter, error)

	// UpdateMode persists a mode flip, stamping updatedAt only on the
	// touched row.
	UpdateMode(ctx context.Context, chID uint, mode content.Mode, price int64, updatedAt time.Time) error
}
