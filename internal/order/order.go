// Package order tracks the user-chosen arrangement of pages or images.
package order

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrOutOfRange is returned when an item or index falls outside the list.
var ErrOutOfRange = errors.New("out of range")

// Arrangement is an ordered list of 1-based item numbers. Item numbers are
// allocated once and never reused, so numbers stay stable across removals.
type Arrangement struct {
	items     []int
	allocated int
}

// New returns the identity arrangement [1..n].
func New(n int) *Arrangement {
	a := &Arrangement{}
	a.Append(n)
	return a
}

// Append allocates n new items after the highest item ever allocated and
// adds them to the end, leaving the existing order untouched.
func (a *Arrangement) Append(n int) {
	for i := 0; i < n; i++ {
		a.allocated++
		a.items = append(a.items, a.allocated)
	}
}

// Remove drops item from the arrangement. Unknown items are ignored.
func (a *Arrangement) Remove(item int) {
	idx := a.indexOf(item)
	if idx < 0 {
		return
	}
	a.items = append(a.items[:idx], a.items[idx+1:]...)
}

// Move relocates the item at index from to index to.
func (a *Arrangement) Move(from, to int) error {
	if from < 0 || from >= len(a.items) || to < 0 || to >= len(a.items) {
		return fmt.Errorf("move %d -> %d: index %w (len %d)", from, to, ErrOutOfRange, len(a.items))
	}
	item := a.items[from]
	a.items = append(a.items[:from], a.items[from+1:]...)
	a.items = append(a.items[:to], append([]int{item}, a.items[to:]...)...)
	return nil
}

// Reset forgets all items and allocations.
func (a *Arrangement) Reset() {
	a.items = nil
	a.allocated = 0
}

// Items returns a copy of the current order.
func (a *Arrangement) Items() []int {
	out := make([]int, len(a.items))
	copy(out, a.items)
	return out
}

// Len is the number of items currently arranged.
func (a *Arrangement) Len() int { return len(a.items) }

// Empty reports whether every item has been removed.
func (a *Arrangement) Empty() bool { return len(a.items) == 0 }

// Allocated is the highest item number handed out so far.
func (a *Arrangement) Allocated() int { return a.allocated }

// Validate checks every item falls within 1..max.
func (a *Arrangement) Validate(max int) error {
	for _, it := range a.items {
		if it < 1 || it > max {
			return fmt.Errorf("item %d %w 1..%d", it, ErrOutOfRange, max)
		}
	}
	return nil
}

// IsIdentity reports whether the arrangement is exactly [1..n].
func (a *Arrangement) IsIdentity(n int) bool {
	if len(a.items) != n {
		return false
	}
	for i, it := range a.items {
		if it != i+1 {
			return false
		}
	}
	return true
}

func (a *Arrangement) String() string {
	parts := make([]string, len(a.items))
	for i, it := range a.items {
		parts[i] = strconv.Itoa(it)
	}
	return strings.Join(parts, ",")
}

// Parse reads the comma form "3,1,2". Whitespace around numbers is allowed.
// An empty string yields an empty arrangement.
func Parse(s string) (*Arrangement, error) {
	a := &Arrangement{}
	s = strings.TrimSpace(s)
	if s == "" {
		return a, nil
	}
	for _, p := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("parse order %q: %w", s, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("parse order %q: item %d must be positive", s, n)
		}
		a.items = append(a.items, n)
		if n > a.allocated {
			a.allocated = n
		}
	}
	return a, nil
}

// FromSlice builds an arrangement from explicit item numbers.
func FromSlice(items []int) *Arrangement {
	a := &Arrangement{}
	for _, it := range items {
		a.items = append(a.items, it)
		if it > a.allocated {
			a.allocated = it
		}
	}
	return a
}

func (a *Arrangement) indexOf(item int) int {
	for i, it := range a.items {
		if it == item {
			return i
		}
	}
	return -1
}
