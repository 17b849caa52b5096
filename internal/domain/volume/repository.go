package volume

import "context"

type Repository interface {
	Create(ctx context.Context, volume *Volume) error
	GetByID(ctx context.Context, volID uint) (*Volume, error)
	GetBySID(ctx context.Context, sid string) (*Volume, error)
	ListByNovelID(ctx context.Context, novelID uint) ([]*Volume, error)
	Update(ctx context.Context, volume *Volume) error
	Delete(ctx context.Context, volID uint) error
}
