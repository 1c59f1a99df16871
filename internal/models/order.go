// ABOUTME: Fractional sort-order arithmetic for placing rows between neighbours.
// ABOUTME: Lets callers insert or move rows without renumbering siblings.
package models

import (
	"errors"
	"math"
)

// ErrNoRoomBetween means two neighbouring positions are too close for a
// float64 value to fit strictly between them.
var ErrNoRoomBetween = errors.New("no sort position between neighbours")

// ValidateSortOrder rejects NaN and infinite positions.
func ValidateSortOrder(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: "sort_order", Reason: "must be a finite number"}
	}
	return nil
}

// SortOrderBetween returns a position strictly between before and after.
// A nil bound means open-ended on that side.
func SortOrderBetween(before, after *float64) (float64, error) {
	switch {
	case before == nil && after == nil:
		return 1, nil
	case before == nil:
		return *after - 1, nil
	case after == nil:
		return *before + 1, nil
	}

	lo, hi := *before, *after
	if lo >= hi {
		return 0, ErrNoRoomBetween
	}
	mid := lo + (hi-lo)/2
	if mid <= lo || mid >= hi {
		return 0, ErrNoRoomBetween
	}
	return mid, nil
}
