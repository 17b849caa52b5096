package rental

import "errors"

// ErrInvalidWindow is returned when a rental's end time is not strictly
// after its start time.
var ErrInvalidWindow = errors.New("rental end time must be after start time")
