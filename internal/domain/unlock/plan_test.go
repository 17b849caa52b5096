package unlock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/inkwell/internal/domain/chapter"
	"github.com/inkwell-press/inkwell/internal/domain/content"
)

func paidChapter(t *testing.T, order int, price int64) *chapter.Chapter {
	t.Helper()
	now := time.Now().UTC()
	c, err := chapter.Reconstruct(chapter.ReconstructParams{
		ID: uint(order), SID: "ch_test", NovelID: 1, VolumeID: 1,
		Title: "t", Order: order, Mode: content.ModePaid, Price: price,
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	return c
}

func orders(planned []*chapter.Chapter) []int {
	out := make([]int, 0, len(planned))
	for _, c := range planned {
		out = append(out, c.Order())
	}
	return out
}

func TestPlan_AffordsPrefixInOrder(t *testing.T) {
	chapters := []*chapter.Chapter{
		paidChapter(t, 1, 10),
		paidChapter(t, 2, 20),
		paidChapter(t, 3, 15),
	}

	planned, spend := Plan(45, chapters)

	assert.Equal(t, []int{1, 2, 3}, orders(planned))
	assert.EqualValues(t, 45, spend)
}

func TestPlan_StopsAtFirstUnaffordable(t *testing.T) {
	// Prices [10, 20, 15] with balance 25: order 1 is unlocked (remaining
	// 15), order 2 costs 20 > 15 so the walk stops. Order 3 stays locked
	// even though 15 <= 15 would cover it in isolation.
	chapters := []*chapter.Chapter{
		paidChapter(t, 1, 10),
		paidChapter(t, 2, 20),
		paidChapter(t, 3, 15),
	}

	planned, spend := Plan(25, chapters)

	assert.Equal(t, []int{1}, orders(planned))
	assert.EqualValues(t, 10, spend)
}

func TestPlan_NeverSkipsAnEarlierChapter(t *testing.T) {
	// Balance covers order 5 alone, but order 3 comes first and is
	// unaffordable, so nothing past it is unlocked.
	chapters := []*chapter.Chapter{
		paidChapter(t, 3, 100),
		paidChapter(t, 5, 5),
	}

	planned, _ := Plan(50, chapters)

	assert.Empty(t, planned)
}

func TestPlan_ZeroBalance(t *testing.T) {
	planned, spend := Plan(0, []*chapter.Chapter{paidChapter(t, 1, 1)})
	assert.Empty(t, planned)
	assert.Zero(t, spend)
}

func TestPlan_NoPaidChapters(t *testing.T) {
	planned, spend := Plan(1000, nil)
	assert.Empty(t, planned)
	assert.Zero(t, spend)
}

func TestPlan_ExactBalance(t *testing.T) {
	chapters := []*chapter.Chapter{
		paidChapter(t, 1, 10),
		paidChapter(t, 2, 15),
	}

	planned, spend := Plan(25, chapters)

	assert.Equal(t, []int{1, 2}, orders(planned))
	assert.EqualValues(t, 25, spend)
}
