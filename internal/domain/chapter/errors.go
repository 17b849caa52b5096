package chapter

import "errors"

var (
	// ErrPaidWithoutPrice is returned when a chapter enters or sits in paid
	// mode with a price below 1.
	ErrPaidWithoutPrice = errors.New("paid chapter requires a price of at least 1")

	// ErrPriceOnFreeChapter is returned when a price is attached to a chapter
	// whose mode is not paid.
	ErrPriceOnFreeChapter = errors.New("price is only meaningful on a paid chapter")

	// ErrRedundantPricing is returned when a chapter is individually priced
	// while its owning volume is already paid.
	ErrRedundantPricing = errors.New("chapter cannot be paid inside a paid volume")

	// ErrNotPaid is returned when unlocking a chapter that is not paid.
	ErrNotPaid = errors.New("only paid chapters can be unlocked")
)
