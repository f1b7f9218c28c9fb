package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag collects the diagnostics of one module. A module whose bag holds
// any error is withheld from code generation.
type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(maxItems int) *Bag {
	capped, err := safecast.Conv[uint16](maxItems)
	if err != nil {
		panic(fmt.Errorf("bag capacity overflow: %w", err))
	}
	return &Bag{
		items: make([]Diagnostic, 0, maxItems),
		max:   capped,
	}
}

// Add appends d unless the bag is full. Reports whether d was stored.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any stored diagnostic is an error.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the stored diagnostics. The slice aliases the bag's
// internal storage; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends every diagnostic from other, growing the limit if needed.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	if total, err := safecast.Conv[uint16](newTotal); err == nil && total > b.max {
		b.max = total
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start, end, severity (desc), code
// for deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
