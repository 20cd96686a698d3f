package relay

import (
	"errors"
	"fmt"
)

var (
	ErrBadKey           = errors.New("bad key")
	ErrBadVersion       = errors.New("bad version")
	ErrWrongContentType = errors.New("wrong content type")
	ErrBadBody          = errors.New("bad body")
	ErrVersionConflict  = errors.New("version conflict")
	ErrBadFilters       = errors.New("bad filters")
	ErrClosed           = errors.New("relay closed")
)

// ConflictError describes a rejected publish. It matches ErrVersionConflict.
type ConflictError struct {
	Key      string
	Current  int64
	Declared int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("version conflict on %q: current %d, declared %d, expected %d",
		e.Key, e.Current, e.Declared, e.Current+1)
}

func (e *ConflictError) Unwrap() error {
	return ErrVersionConflict
}
