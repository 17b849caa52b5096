package user

import "errors"

// ErrInsufficientCoins is returned when a debit exceeds the coin balance.
var ErrInsufficientCoins = errors.New("insufficient coin balance")
