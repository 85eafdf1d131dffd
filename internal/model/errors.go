package model

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySeries    = errors.New("price series is empty")
	ErrInvalidPrice   = errors.New("price must be positive and finite")
	ErrUnsortedSeries = errors.New("price series is not in ascending timestamp order")
	ErrInvalidParams  = errors.New("invalid strategy parameters")
)

// SeriesError reports which point of a raw series failed validation.
// It matches the wrapped sentinel via errors.Is.
type SeriesError struct {
	Err       error
	Index     int
	Timestamp int64
	Price     float64
}

func (e *SeriesError) Error() string {
	return fmt.Sprintf("point %d (ts=%d price=%v): %v", e.Index, e.Timestamp, e.Price, e.Err)
}

func (e *SeriesError) Unwrap() error { return e.Err }
