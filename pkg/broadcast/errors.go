package broadcast

import "errors"

var (
	ErrSinkClosed = errors.New("broadcast: sink closed")
	ErrSinkFull   = errors.New("broadcast: sink buffer full")
)
