package truth

import (
	"fmt"
	"strings"

	"go.golo.dev/golo"
)

var _ fmt.Stringer = (*duplicateCounter)(nil)

// duplicateCounter is a collection of counters for tracking duplicates.
//
// The count values may be modified only through Increment() and Decrement(),
// which increment and decrement by 1 (only). If a count ever becomes 0, the item
// is immediately expunged. Counts can never be negative;
// attempting to Decrement an absent key has no effect.
//
// Order is preserved so that error messages containing expected values match.
//
// Values are counted by their string representation.
type duplicateCounter struct {
	m map[string]uint
	s []string
	d uint
}

func newDuplicateCounter() *duplicateCounter {
	return &duplicateCounter{
		m: make(map[string]uint),
	}
}

// HasDupes indicates whether there are values that appears > 1 times.
func (dc *duplicateCounter) HasDupes() bool { return dc.d != 0 }

func (dc *duplicateCounter) Empty() bool { return len(dc.m) == 0 }

func (dc *duplicateCounter) Len() int { return len(dc.m) }

func (dc *duplicateCounter) Contains(v golo.Value) bool {
	_, ok := dc.m[repr(v)]
	return ok
}

// Increment increments a count by 1. Inserts the item if not present.
func (dc *duplicateCounter) Increment(v golo.Value) {
	k := repr(v)
	if _, ok := dc.m[k]; !ok {
		dc.m[k] = 0
		dc.s = append(dc.s, k)
	}
	dc.m[k]++
	if dc.m[k] == 2 {
		dc.d++
	}
}

// Decrement decrements a count by 1. Expunges the item if the count is 0.
// If the item is not present, has no effect.
func (dc *duplicateCounter) Decrement(v golo.Value) {
	k := repr(v)
	count, ok := dc.m[k]
	if !ok {
		return
	}
	if count != 1 {
		dc.m[k]--
		if dc.m[k] == 1 {
			dc.d--
		}
		return
	}
	delete(dc.m, k)
	s := dc.s[:0]
	for _, x := range dc.s {
		if x != k {
			s = append(s, x)
		}
	}
	dc.s = s
}

// Returns the string representation of the duplicate counts.
//
// Items occurring more than once are accompanied by their count.
// Otherwise the count is implied to be 1.
//
// For example, if the counts are `{2: 1, 3: 4, "abc": 1}`, this returns
// the string `2, 3 [4 copies], "abc"`.
func (dc *duplicateCounter) String() string {
	var b strings.Builder
	for i, k := range dc.s {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		if count := dc.m[k]; count != 1 {
			fmt.Fprintf(&b, " [%d copies]", count)
		}
	}
	return b.String()
}

// Dupes shows only items whose count > 1.
func (dc *duplicateCounter) Dupes() string {
	var b strings.Builder
	first := true
	for _, k := range dc.s {
		if count := dc.m[k]; count != 1 {
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&b, "%s [%d copies]", k, count)
		}
	}
	return b.String()
}
