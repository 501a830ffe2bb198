package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid or missing fields")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")

	// ErrTotalOverflow rejects a contribution that would push a pool total
	// past the int64 range. It is a validation error.
	ErrTotalOverflow = fmt.Errorf("%w: pool total would overflow", ErrValidation)
)
