package furthest

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyUniverse is returned when a strategy is constructed from, or
	// switched to, a universe with no items.
	ErrEmptyUniverse = errors.New("universe must not be empty")

	// ErrEmptyQuery is returned when a batch find is called with no
	// query items.
	ErrEmptyQuery = errors.New("query batch must not be empty")
)

// ErrInvalidK indicates that k is outside [1, Max], where Max is the size
// of the effective search domain.
type ErrInvalidK struct {
	K   int
	Max int
}

func (e *ErrInvalidK) Error() string {
	return fmt.Sprintf("invalid k: %d, must be in [1, %d]", e.K, e.Max)
}

// ErrInvalidParam indicates a strategy parameter outside its stated domain.
type ErrInvalidParam struct {
	Name   string
	Value  any
	Reason string
}

func (e *ErrInvalidParam) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}
