package user

import "context"

// Repository persists user accounts. Username and email lookups back the
// login and uniqueness paths; SID lookups back the HTTP surface.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, usrID uint) (*User, error)
	GetBySID(ctx context.Context, sid string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}
