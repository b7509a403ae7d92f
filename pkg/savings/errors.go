package savings

import "errors"

// ErrInvalidAmount is returned when a contribution amount is zero or negative.
var ErrInvalidAmount = errors.New("amount must be positive")

// ErrNotFound is returned when a required child, goal or portfolio row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a concurrent update on a portfolio value is detected.
var ErrConflict = errors.New("concurrent update conflict")
