package user

import (
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/shared/id"
)

// User is the account aggregate. Coins are the platform currency: readers
// top up coins and spend them on rentals and novel contributions.
type User struct {
	usrID        uint
	sid          string
	username     string
	email        string
	passwordHash string
	role         Role
	coins        int64
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a reader account. The password arrives already hashed; the
// domain never sees plaintext.
func NewUser(username, email, passwordHash string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	sid, err := id.GenerateWithPrefix(id.PrefixUser, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate user SID: %w", err)
	}

	now := time.Now().UTC()
	return &User{
		sid:          sid,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		role:         RoleReader,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

type ReconstructParams struct {
	ID           uint
	SID          string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Coins        int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func Reconstruct(p ReconstructParams) (*User, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	if !p.Role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", p.Role)
	}
	if p.Coins < 0 {
		return nil, fmt.Errorf("coin balance cannot be negative")
	}

	return &User{
		usrID:        p.ID,
		sid:          p.SID,
		username:     p.Username,
		email:        p.Email,
		passwordHash: p.PasswordHash,
		role:         p.Role,
		coins:        p.Coins,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}, nil
}

func (u *User) ID() uint             { return u.usrID }
func (u *User) SID() string          { return u.sid }
func (u *User) Username() string     { return u.username }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
func (u *User) Coins() int64         { return u.coins }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) SetID(usrID uint) error {
	if u.usrID != 0 {
		return fmt.Errorf("user ID already set")
	}
	if usrID == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.usrID = usrID
	return nil
}

// SetRole changes the account role.
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", role)
	}
	u.role = role
	u.touch()
	return nil
}

// Credit adds coins after a completed top-up.
func (u *User) Credit(amount int64) error {
	if amount < 1 {
		return fmt.Errorf("credit amount must be at least 1")
	}
	u.coins += amount
	u.touch()
	return nil
}

// Debit spends coins on a rental or contribution.
func (u *User) Debit(amount int64) error {
	if amount < 1 {
		return fmt.Errorf("debit amount must be at least 1")
	}
	if amount > u.coins {
		return ErrInsufficientCoins
	}
	u.coins -= amount
	u.touch()
	return nil
}

func (u *User) touch() {
	u.updatedAt = time.Now().UTC()
}
