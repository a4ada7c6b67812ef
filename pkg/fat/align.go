package fat

import (
	"fmt"
	"math"
)

// MaxAlign is the largest exponent whose alignment fits a 32-bit offset.
const MaxAlign Align = 31

// Align is a power-of-two exponent: Align(14) means 16384-byte alignment.
type Align uint32

// Bytes returns 2^a and whether it is usable for 32-bit offsets.
func (a Align) Bytes() (uint64, bool) {
	if a > MaxAlign {
		return 0, false
	}
	return 1 << a, true
}

// Aligned reports whether off is a multiple of 2^a.
func (a Align) Aligned(off uint64) bool {
	n, ok := a.Bytes()
	if !ok {
		return false
	}
	return off%n == 0
}

// alignUp rounds off up to the next multiple of 2^a.
func (a Align) alignUp(off uint64) (uint64, bool) {
	n, ok := a.Bytes()
	if !ok {
		return 0, false
	}
	mod := off % n
	if mod == 0 {
		return off, true
	}
	up := off + (n - mod)
	if up > math.MaxUint32 {
		return 0, false
	}
	return up, true
}

func (a Align) String() string {
	return fmt.Sprintf("2^%d", uint32(a))
}
