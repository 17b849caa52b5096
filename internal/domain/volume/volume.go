// Package volume models a novel's volume: an ordered group of chapters that
// carries its own visibility mode, an ownership price, and a rent price.
// Rentals grant time-bounded access to every chapter in the volume.
package volume

import (
	"fmt"
	"time"

	"github.com/inkwell-press/inkwell/internal/domain/content"
	"github.com/inkwell-press/inkwell/internal/shared/id"
)

type Volume struct {
	volID     uint
	sid       string
	novelID   uint
	title     string
	order     int
	mode      content.Mode
	price     int64
	rentPrice int64
	createdAt time.Time
	updatedAt time.Time
}

// NewVolume creates a volume in draft mode with no pricing.
func NewVolume(novelID uint, title string, order int) (*Volume, error) {
	if novelID == 0 {
		return nil, fmt.Errorf("novel ID is required")
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if order < 0 {
		return nil, fmt.Errorf("order cannot be negative")
	}

	sid, err := id.GenerateWithPrefix(id.PrefixVolume, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate volume SID: %w", err)
	}

	now := time.Now().UTC()
	return &Volume{
		sid:       sid,
		novelID:   novelID,
		title:     title,
		order:     order,
		mode:      content.ModeDraft,
		createdAt: now,
		updatedAt: now,
	}, nil
}

type ReconstructParams struct {
	ID        uint
	SID       string
	NovelID   uint
	Title     string
	Order     int
	Mode      content.Mode
	Price     int64
	RentPrice int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func Reconstruct(p ReconstructParams) (*Volume, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("volume ID cannot be zero")
	}
	if p.NovelID == 0 {
		return nil, fmt.Errorf("novel ID is required")
	}
	if !p.Mode.IsValid() {
		return nil, fmt.Errorf("invalid volume mode: %s", p.Mode)
	}
	if p.Mode == content.ModePaid && p.Price < 1 {
		return nil, ErrPaidWithoutPrice
	}
	if p.Price < 0 || p.RentPrice < 0 {
		return nil, fmt.Errorf("volume pricing cannot be negative")
	}

	return &Volume{
		volID:     p.ID,
		sid:       p.SID,
		novelID:   p.NovelID,
		title:     p.Title,
		order:     p.Order,
		mode:      p.Mode,
		price:     p.Price,
		rentPrice: p.RentPrice,
		createdAt: p.CreatedAt,
		updatedAt: p.UpdatedAt,
	}, nil
}

func (v *Volume) ID() uint             { return v.volID }
func (v *Volume) SID() string          { return v.sid }
func (v *Volume) NovelID() uint        { return v.novelID }
func (v *Volume) Title() string        { return v.title }
func (v *Volume) Order() int           { return v.order }
func (v *Volume) Mode() content.Mode   { return v.mode }
func (v *Volume) Price() int64         { return v.price }
func (v *Volume) RentPrice() int64     { return v.rentPrice }
func (v *Volume) CreatedAt() time.Time { return v.createdAt }
func (v *Volume) UpdatedAt() time.Time { return v.updatedAt }

func (v *Volume) SetID(volID uint) error {
	if v.volID != 0 {
		return fmt.Errorf("volume ID already set")
	}
	if volID == 0 {
		return fmt.Errorf("volume ID cannot be zero")
	}
	v.volID = volID
	return nil
}

func (v *Volume) SetTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	v.title = title
	v.touch()
	return nil
}

func (v *Volume) SetOrder(order int) error {
	if order < 0 {
		return fmt.Errorf("order cannot be negative")
	}
	v.order = order
	v.touch()
	return nil
}

// IsRentable reports whether readers can rent this volume.
func (v *Volume) IsRentable() bool {
	return v.mode == content.ModePaid && v.rentPrice >= 1
}

// ChangeMode transitions the volume's visibility. Entering paid mode requires
// an ownership price of at least 1; leaving paid mode drops both prices.
func (v *Volume) ChangeMode(mode content.Mode, price, rentPrice int64) error {
	if !mode.IsValid() {
		return fmt.Errorf("invalid volume mode: %s", mode)
	}

	if mode == content.ModePaid {
		if price < 1 {
			return ErrPaidWithoutPrice
		}
		if rentPrice < 0 {
			return fmt.Errorf("rent price cannot be negative")
		}
		v.mode = mode
		v.price = price
		v.rentPrice = rentPrice
		v.touch()
		return nil
	}

	v.mode = mode
	v.price = 0
	v.rentPrice = 0
	v.touch()
	return nil
}

// SetPricing adjusts the prices of an already-paid volume.
func (v *Volume) SetPricing(price, rentPrice int64) error {
	if v.mode != content.ModePaid {
		return ErrPriceOnFreeVolume
	}
	if price < 1 {
		return ErrPaidWithoutPrice
	}
	if rentPrice < 0 {
		return fmt.Errorf("rent price cannot be negative")
	}
	v.price = price
	v.rentPrice = rentPrice
	v.touch()
	return nil
}

func (v *Volume) touch() {
	v.updatedAt = time.Now().UTC()
}
