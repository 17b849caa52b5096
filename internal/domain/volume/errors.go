package volume

import "errors"

var (
	// ErrPaidWithoutPrice is returned when a volume enters paid mode with an
	// ownership price below 1.
	ErrPaidWithoutPrice = errors.New("paid volume requires a price of at least 1")

	// ErrPriceOnFreeVolume is returned when pricing is adjusted on a volume
	// whose mode is not paid.
	ErrPriceOnFreeVolume = errors.New("pricing is only meaningful on a paid volume")
)
