// Package novel models the novel aggregate: title, slug, the staff roster
// allowed project access, and the accumulated contribution balance that
// drives automatic chapter unlocking.
package novel

import (
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/shared/id"
)

type Novel struct {
	novID       uint
	sid         string
	title       string
	slug        string
	description string
	creatorID   uint
	roster      Roster
	balance     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewNovel creates a novel with an empty roster and zero balance.
func NewNovel(title, slug string, creatorID uint) (*Novel, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("slug is required")
	}
	if creatorID == 0 {
		return nil, fmt.Errorf("creator ID is required")
	}

	sid, err := id.GenerateWithPrefix(id.PrefixNovel, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate novel SID: %w", err)
	}

	now := time.Now().UTC()
	return &Novel{
		sid:       sid,
		title:     title,
		slug:      slug,
		creatorID: creatorID,
		roster:    Roster{},
		createdAt: now,
		updatedAt: now,
	}, nil
}

type ReconstructParams struct {
	ID          uint
	SID         string
	Title       string
	Slug        string
	Description string
	CreatorID   uint
	Roster      Roster
	Balance     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func Reconstruct(p ReconstructParams) (*Novel, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("novel ID cannot be zero")
	}
	if p.Balance < 0 {
		return nil, fmt.Errorf("contribution balance cannot be negative")
	}
	if p.Roster == nil {
		p.Roster = Roster{}
	}

	return &Novel{
		novID:       p.ID,
		sid:         p.SID,
		title:       p.Title,
		slug:        p.Slug,
		description: p.Description,
		creatorID:   p.CreatorID,
		roster:      p.Roster,
		balance:     p.Balance,
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
	}, nil
}

func (n *Novel) ID() uint             { return n.novID }
func (n *Novel) SID() string          { return n.sid }
func (n *Novel) Title() string        { return n.title }
func (n *Novel) Slug() string         { return n.slug }
func (n *Novel) Description() string  { return n.description }
func (n *Novel) CreatorID() uint      { return n.creatorID }
func (n *Novel) Balance() int64       { return n.balance }
func (n *Novel) CreatedAt() time.Time { return n.createdAt }
func (n *Novel) UpdatedAt() time.Time { return n.updatedAt }

// Roster returns a copy of the staff roster.
func (n *Novel) Roster() Roster {
	out := make(Roster, len(n.roster))
	copy(out, n.roster)
	return out
}

func (n *Novel) SetID(novID uint) error {
	if n.novID != 0 {
		return fmt.Errorf("novel ID already set")
	}
	if novID == 0 {
		return fmt.Errorf("novel ID cannot be zero")
	}
	n.novID = novID
	return nil
}

func (n *Novel) SetTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	n.title = title
	n.touch()
	return nil
}

func (n *Novel) SetDescription(description string) {
	n.description = description
	n.touch()
}

// HasStaff reports whether the candidate appears in the active roster under
// either identifier form.
func (n *Novel) HasStaff(userID uint, username string) bool {
	return n.roster.Contains(userID, username)
}

// SetRoster replaces the active roster.
func (n *Novel) SetRoster(roster Roster) {
	if roster == nil {
		roster = Roster{}
	}
	n.roster = roster
	n.touch()
}

// AddStaff appends an identifier unless it already matches an entry.
func (n *Novel) AddStaff(entry Identifier) {
	if n.roster.Contains(entry.UserID(), entry.Username()) {
		return
	}
	n.roster = append(n.roster, entry)
	n.touch()
}

// Contribute adds coins to the novel's accumulated contribution balance.
func (n *Novel) Contribute(amount int64) error {
	if amount < 1 {
		return fmt.Errorf("contribution must be at least 1")
	}
	n.balance += amount
	n.touch()
	return nil
}

// SpendBalance consumes balance during an unlock batch. The engine persists
// the subtraction together with the chapter flips so a re-run starts from the
// remaining balance, which is what makes the batch idempotent.
func (n *Novel) SpendBalance(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("spend amount cannot be negative")
	}
	if amount > n.balance {
		return fmt.Errorf("spend amount %d exceeds balance %d", amount, n.balance)
	}
	n.balance -= amount
	n.touch()
	return nil
}

func (n *Novel) touch() {
	n.updatedAt = time.Now().UTC()
}
