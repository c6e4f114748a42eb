// Package selection implements the frame/slice selection core: parsing
// user selectors, resolving them against a volume's shape, and producing
// the ordered, deterministically named sequence of extraction jobs.
package selection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrIndexOutOfRange reports an explicit frame or slice index that falls
// outside the available count.
var ErrIndexOutOfRange = errors.New("index out of range")

// Policy enumerates the three selection policies.
type Policy int

const (
	// All selects every index along the axis.
	All Policy = iota

	// Middle selects the single middle index, count/2 with floor
	// division (the upper-middle for even counts).
	Middle

	// Index selects one explicit index.
	Index
)

// Selector is a frame or slice selection policy. The zero value selects
// all indices.
type Selector struct {
	Policy Policy

	// Idx is the explicit index; only meaningful when Policy is Index.
	Idx int
}

// SelectAll returns a selector covering every index.
func SelectAll() Selector {
	return Selector{Policy: All}
}

// SelectMiddle returns a selector for the middle index.
func SelectMiddle() Selector {
	return Selector{Policy: Middle}
}

// SelectIndex returns a selector for one explicit index.
func SelectIndex(i int) Selector {
	return Selector{Policy: Index, Idx: i}
}

// ParseSelector parses the command-line selector syntax: "-1" selects all,
// "m" selects the middle, and a non-negative integer selects that index.
func ParseSelector(s string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "-1":
		return SelectAll(), nil
	case "m":
		return SelectMiddle(), nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return Selector{}, fmt.Errorf("invalid selector %q: want -1, m, or a non-negative integer", s)
	}
	if i < 0 {
		return Selector{}, fmt.Errorf("invalid selector index %d: must be non-negative", i)
	}
	return SelectIndex(i), nil
}

// String renders the selector in the command-line syntax.
func (s Selector) String() string {
	switch s.Policy {
	case Middle:
		return "m"
	case Index:
		return strconv.Itoa(s.Idx)
	default:
		return "-1"
	}
}

// Range resolves the selector against an axis of the given length and
// returns the indices to visit, in ascending order. An empty axis yields
// an empty range for All and Middle; an explicit index against any axis
// it does not fit fails with ErrIndexOutOfRange.
func (s Selector) Range(count int) ([]int, error) {
	switch s.Policy {
	case Middle:
		if count == 0 {
			return nil, nil
		}
		return []int{count / 2}, nil
	case Index:
		if s.Idx < 0 || s.Idx >= count {
			return nil, fmt.Errorf("%w: index %d not in [0,%d)", ErrIndexOutOfRange, s.Idx, count)
		}
		return []int{s.Idx}, nil
	default:
		r := make([]int, count)
		for i := range r {
			r[i] = i
		}
		return r, nil
	}
}
