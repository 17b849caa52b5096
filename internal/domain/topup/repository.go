package topup

import "context"

type Repository interface {
	Create(ctx context.Context, topUp *TopUp) error
	GetByID(ctx context.Context, topID uint) (*TopUp, error)
	GetBySID(ctx context.Context, sid string) (*TopUp, error)
	GetByProviderRef(ctx context.Context, providerRef string) (*TopUp, error)
	ListByUserID(ctx context.Context, userID uint) ([]*TopUp, error)
	Update(ctx context.Context, topUp *TopUp) error
}
