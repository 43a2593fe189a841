package hex

import "errors"

var (
	ErrEmptyQueue       = errors.New("dequeue from empty cell priority queue")
	ErrNegativePriority = errors.New("negative search priority")
)
