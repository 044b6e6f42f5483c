package model

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidInput marks malformed or inconsistent inbound records.
	// It is the only error kind the derivation core produces.
	ErrInvalidInput = errors.New("invalid input")
)
