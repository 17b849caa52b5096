// Package unlock computes which paid chapters a novel's accumulated
// contribution balance can flip to published. Planning is pure; the
// application-level engine persists the result.
package unlock

import "github.com/inkwell-press/inkwell/internal/domain/chapter"

// Plan walks the paid chapters in reading order and affords them one by one
// until the balance runs out. Unlocking is contiguous: the walk stops at the
// first chapter the balance cannot cover, even when a later, cheaper chapter
// would fit in isolation. This keeps the unlocked prefix aligned with the
// order readers actually read in.
//
// The input must already be sorted by reading order ascending and contain
// only paid-mode chapters; the repository contract guarantees both.
// The returned spend is the total price of the planned chapters.
func Plan(available int64, paidInOrder []*chapter.Chapter) (planned []*chapter.Chapter, spend int64) {
	remaining := available
	for _, ch := range paidInOrder {
		price := ch.Price()
		if price > remaining {
			break
		}
		remaining -= price
		spend += price
		planned = append(planned, ch)
	}
	return planned, spend
}
