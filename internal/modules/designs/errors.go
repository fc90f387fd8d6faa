package designs

import "errors"

var (
	ErrInvalidTransition = errors.New("invalid design order status transition")
	ErrNotActionable     = errors.New("design order not actionable")
)
