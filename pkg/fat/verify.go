package fat

import (
	"errors"
	"fmt"
)

// Verify checks a parsed file against the invariants Write guarantees:
// slices lie inside the source, after the descriptor table, on their
// declared alignment and without overlapping each other.
// Every violation is reported.
func (f *File) Verify() error {
	var errs []error
	tableEnd := tableSize(uint32(len(f.Arches)))
	for i, a := range f.Arches {
		if a.End() > uint64(f.size) {
			errs = append(errs, fmt.Errorf("%w: descriptor %d (%s) ends at %d, source has %d bytes", ErrOutOfBounds, i, a, a.End(), f.size))
		}
		if a.Size > 0 && uint64(a.Offset) < tableEnd {
			errs = append(errs, fmt.Errorf("%w: descriptor %d (%s) overlaps the descriptor table", ErrInvalidLayout, i, a))
		}
		if !a.Align.Aligned(uint64(a.Offset)) {
			errs = append(errs, fmt.Errorf("%w: descriptor %d (%s) offset %d not aligned to %s", ErrInvalidLayout, i, a, a.Offset, a.Align))
		}
		for j := i + 1; j < len(f.Arches); j++ {
			b := f.Arches[j]
			if rangesOverlap(uint64(a.Offset), a.End(), uint64(b.Offset), b.End()) {
				errs = append(errs, fmt.Errorf("%w: descriptors %d (%s) and %d (%s) overlap", ErrInvalidLayout, i, a, j, b))
			}
		}
	}
	return errors.Join(errs...)
}

func rangesOverlap(a0, a1, b0, b1 uint64) bool {
	// half-open ranges [a0,a1) and [b0,b1)
	return a0 < b1 && b0 < a1
}
