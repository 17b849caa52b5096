package chapter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/domain/content"
)

func newTestChapter(t *testing.T) *Chapter {
	t.Helper()
	c, err := NewChapter(1, 2, "Chapter One", 1)
	require.NoError(t, err)
	return c
}

func reconstructPaid(t *testing.T, order int, price int64) *Chapter {
	t.Helper()
	now := time.Now().UTC()
	c, err := Reconstruct(ReconstructParams{
		ID:        uint(100 + order),
		SID:       "ch_test",
		NovelID:   1,
		VolumeID:  2,
		Title:     "Paid chapter",
		Order:     order,
		Mode:      content.ModePaid,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	return c
}

func TestNewChapter(t *testing.T) {
	c := newTestChapter(t)

	assert.Equal(t, content.ModeDraft, c.Mode())
	assert.Zero(t, c.Price())
	assert.NotEmpty(t, c.SID())
	assert.Contains(t, c.SID(), "ch_")
}

func TestNewChapter_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		novelID  uint
		volumeID uint
		title    string
		order    int
	}{
		{"missing novel", 0, 2, "title", 1},
		{"missing volume", 1, 0, "title", 1},
		{"empty title", 1, 2, "", 1},
		{"negative order", 1, 2, "title", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChapter(tt.novelID, tt.volumeID, tt.title, tt.order)
			assert.Error(t, err)
		})
	}
}

func TestReconstruct_RejectsBrokenInvariants(t *testing.T) {
	now := time.Now().UTC()
	base := ReconstructParams{
		ID: 1, SID: "ch_x", NovelID: 1, VolumeID: 1,
		Title: "t", Order: 1, Mode: content.ModePublished,
		CreatedAt: now, UpdatedAt: now,
	}

	t.Run("paid without price", func(t *testing.T) {
		p := base
		p.Mode = content.ModePaid
		p.Price = 0
		_, err := Reconstruct(p)
		assert.ErrorIs(t, err, ErrPaidWithoutPrice)
	})

	t.Run("price on free chapter", func(t *testing.T) {
		p := base
		p.Price = 10
		_, err := Reconstruct(p)
		assert.ErrorIs(t, err, ErrPriceOnFreeChapter)
	})

	t.Run("invalid mode", func(t *testing.T) {
		p := base
		p.Mode = content.Mode("secret")
		_, err := Reconstruct(p)
		assert.Error(t, err)
	})
}

func TestEffectiveMode_PaidVolumeOverridesChapter(t *testing.T) {
	c := newTestChapter(t)
	require.NoError(t, c.ChangeMode(content.ModePublished, 0, content.ModePublished))

	for _, mode := range []content.Mode{content.ModePublished, content.ModeProtected, content.ModeDraft} {
		require.NoError(t, c.ChangeMode(mode, 0, content.ModePublished))
		assert.Equal(t, content.ModePaid, c.EffectiveMode(content.ModePaid),
			"paid volume must force effective paid regardless of chapter mode %s", mode)
		assert.Equal(t, mode, c.EffectiveMode(content.ModePublished))
	}
}

func TestChangeMode_PaidRequiresPrice(t *testing.T) {
	c := newTestChapter(t)

	err := c.ChangeMode(content.ModePaid, 0, content.ModePublished)
	assert.ErrorIs(t, err, ErrPaidWithoutPrice)

	err = c.ChangeMode(content.ModePaid, 25, content.ModePublished)
	require.NoError(t, err)
	assert.Equal(t, content.ModePaid, c.Mode())
	assert.EqualValues(t, 25, c.Price())
}

func TestChangeMode_RejectsRedundantPricing(t *testing.T) {
	c := newTestChapter(t)

	err := c.ChangeMode(content.ModePaid, 25, content.ModePaid)
	assert.ErrorIs(t, err, ErrRedundantPricing)
	assert.Equal(t, content.ModeDraft, c.Mode(), "failed transition must not mutate")
}

func TestChangeMode_LeavingPaidZeroesPrice(t *testing.T) {
	c := newTestChapter(t)
	require.NoError(t, c.ChangeMode(content.ModePaid, 25, content.ModePublished))

	require.NoError(t, c.ChangeMode(content.ModeProtected, 0, content.ModePublished))
	assert.Equal(t, content.ModeProtected, c.Mode())
	assert.Zero(t, c.Price())
}

func TestSetPrice(t *testing.T) {
	c := newTestChapter(t)

	assert.ErrorIs(t, c.SetPrice(10), ErrPriceOnFreeChapter)

	require.NoError(t, c.ChangeMode(content.ModePaid, 10, content.ModePublished))
	assert.ErrorIs(t, c.SetPrice(0), ErrPaidWithoutPrice)
	require.NoError(t, c.SetPrice(40))
	assert.EqualValues(t, 40, c.Price())
}

func TestUnlock(t *testing.T) {
	now := time.Now().UTC()
	c := reconstructPaid(t, 1, 15)

	require.NoError(t, c.Unlock(now))
	assert.Equal(t, content.ModePublished, c.Mode(), "unlock always yields the public mode")
	assert.Zero(t, c.Price())
	assert.Equal(t, now, c.UpdatedAt())

	// One-way: a second unlock is rejected, never re-locks.
	assert.ErrorIs(t, c.Unlock(now), ErrNotPaid)
}

func TestUnlock_RejectsNonPaid(t *testing.T) {
	c := newTestChapter(t)
	assert.ErrorIs(t, c.Unlock(time.Now()), ErrNotPaid)
}
