package novel

import "context"

type Repository interface {
	Create(ctx context.Context, novel *Novel) error
	GetByID(ctx context.Context, novID uint) (*Novel, error)
	GetBySID(ctx context.Context, sid string) (*Novel, error)
	GetBySlug(ctx context.Context, slug string) (*Novel, error)
	List(ctx context.Context, page, pageSize int) ([]*Novel, int64, error)
	Update(ctx context.Context, novel *Novel) error
	Delete(ctx context.Context, novID uint) error
}
