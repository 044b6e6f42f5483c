package batch

import "errors"

// Sentinel kinds for batch pipeline errors.
var (
	ErrQueueClosed = errors.New("queue is closed")
	ErrQueueFull   = errors.New("queue is full")
)
