package chapter

import (
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/shared/id"
)

// Chapter is the aggregate root for a single chapter of a novel. A chapter
// belongs to exactly one volume, which belongs to exactly one novel.
type Chapter struct {
	chID      uint
	sid       string
	novelID   uint
	volumeID  uint
	title     string
	order     int
	mode      content.Mode
	price     int64
	body      string
	createdAt time.Time
	updatedAt time.Time
}

// NewChapter creates a chapter in draft mode. Pricing is attached later via
// ChangeMode; a fresh chapter never carries a price.
func NewChapter(novelID, volumeID uint, title string, order int) (*Chapter, error) {
	if novelID == 0 {
		return nil, fmt.Errorf("novel ID is required")
	}
	if volumeID == 0 {
		return nil, fmt.Errorf("volume ID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if order < 0 {
		return nil, fmt.Errorf("order cannot be negative")
	}

	sid, err := id.GenerateWithPrefix(id.PrefixChapter, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate chapter SID: %w", err)
	}

	now := time.Now().UTC()
	return &Chapter{
		sid:       sid,
		novelID:   novelID,
		volumeID:  volumeID,
		title:     title,
		order:     order,
		mode:      content.ModeDraft,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructParams carries persisted chapter state back into the domain.
type ReconstructParams struct {
	ID        uint
	SID       string
	NovelID   uint
	VolumeID  uint
	Title     string
	Order     int
	Mode      content.Mode
	Price     int64
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reconstruct rebuilds a chapter from persistence. It validates the stored
// invariants so a corrupted row surfaces here instead of in the evaluator.
func Reconstruct(p ReconstructParams) (*Chapter, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("chapter ID cannot be zero")
	}
	if p.NovelID == 0 || p.VolumeID == 0 {
		return nil, fmt.Errorf("chapter ownership is incomplete")
	}
	if !p.Mode.IsValid() {
		return nil, fmt.Errorf("invalid chapter mode: %s", p.Mode)
	}
	if p.Mode == content.ModePaid && p.Price < 1 {
		return nil, ErrPaidWithoutPrice
	}
	if p.Mode != content.ModePaid && p.Price != 0 {
		return nil, ErrPriceOnFreeChapter
	}

	return &Chapter{
		chID:      p.ID,
		sid:       p.SID,
		novelID:   p.NovelID,
		volumeID:  p.VolumeID,
		title:     p.Title,
		order:     p.Order,
		mode:      p.Mode,
		price:     p.Price,
		body:      p.Body,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}, nil
}

func (c *Chapter) ID() uint             { return c.chID }
func (c *Chapter) SID() string          { return c.sid }
func (c *Chapter) NovelID() uint        { return c.novelID }
func (c *Chapter) VolumeID() uint       { return c.volumeID }
func (c *Chapter) Title() string        { return c.title }
func (c *Chapter) Order() int           { return c.order }
func (c *Chapter) Mode() content.Mode   { return c.mode }
func (c *Chapter) Price() int64         { return c.price }
func (c *Chapter) Body() string         { return c.body }
func (c *Chapter) CreatedAt() time.Time { return c.createdAt }
func (c *Chapter) UpdatedAt() time.Time { return c.updatedAt }

// SetID assigns the database-generated ID after insertion.
func (c *Chapter) SetID(chID uint) error {
	if c.chID != 0 {
		return fmt.Errorf("chapter ID already set")
	}
	if chID == 0 {
		return fmt.Errorf("chapter ID cannot be zero")
	}
	c.chID = chID
	return nil
}

// EffectiveMode resolves this chapter's visibility against its owning
// volume's mode.
func (c *Chapter) EffectiveMode(volumeMode content.Mode) content.Mode {
	return content.Effective(c.mode, volumeMode)
}

// SetTitle renames the chapter.
func (c *Chapter) SetTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	c.title = title
	c.touch()
	return nil
}

// SetBody replaces the chapter body with already-sanitized HTML.
func (c *Chapter) SetBody(body string) {
	c.body = body
	c.touch()
}

// SetOrder moves the chapter within its novel's reading order.
func (c *Chapter) SetOrder(order int) error {
	if order < 0 {
		return fmt.Errorf("order cannot be negative")
	}
	c.order = order
	c.touch()
	return nil
}

// ChangeMode transitions the chapter's visibility. This is the mutation
// boundary for the pricing invariants: a paid chapter must carry a price of
// at least 1, any other mode forces the price to 0, and a chapter may not be
// priced while its volume is already paid (the volume price already covers
// it).
func (c *Chapter) ChangeMode(mode content.Mode, price int64, volumeMode content.Mode) error {
	if !mode.IsValid() {
		return fmt.Errorf("invalid chapter mode: %s", mode)
	}

	if mode == content.ModePaid {
		if volumeMode == content.ModePaid {
			return ErrRedundantPricing
		}
		if price < 1 {
			return ErrPaidWithoutPrice
		}
		c.mode = mode
		c.price = price
		c.touch()
		return nil
	}

	c.mode = mode
	c.price = 0
	c.touch()
	return nil
}

// SetPrice adjusts the price of an already-paid chapter.
func (c *Chapter) SetPrice(price int64) error {
	if c.mode != content.ModePaid {
		return ErrPriceOnFreeChapter
	}
	if price < 1 {
		return ErrPaidWithoutPrice
	}
	c.price = price
	c.touch()
	return nil
}

// Unlock flips a paid chapter to published. The transition is one-way: the
// auto-unlock engine never re-locks, and unlock always yields the most
// permissive public mode.
func (c *Chapter) Unlock(now time.Time) error {
	if c.mode != content.ModePaid {
		return ErrNotPaid
	}
	c.mode = content.ModePublished
	c.price = 0
	c.updatedAt = now.UTC()
	return nil
}

func (c *Chapter) touch() {
	c.updatedAt = time.Now().UTC()
}
