package topup

import "errors"

// ErrAlreadySettled is returned when settling a request twice.
var ErrAlreadySettled = errors.New("top-up request is already settled")
