package fat

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// CPUFamily identifies the instruction set of a slice.
type CPUFamily int32

// cpuArch64 marks the 64-bit variant of a base family.
const cpuArch64 CPUFamily = 0x01000000

const (
	CPUX86    CPUFamily = 7
	CPUX86_64 CPUFamily = CPUX86 | cpuArch64
	CPUARM    CPUFamily = 12
	CPUARM64  CPUFamily = CPUARM | cpuArch64
)

// CPUFamilies lists every known family.
var CPUFamilies = []CPUFamily{CPUX86, CPUX86_64, CPUARM, CPUARM64}

// DecodeCPUFamily interprets b as a signed big-endian cputype.
func DecodeCPUFamily(b [4]byte) (CPUFamily, error) {
	v := CPUFamily(int32(binary.BigEndian.Uint32(b[:])))
	if !v.Valid() {
		return 0, fmt.Errorf("%w: cputype %#08x", ErrUnknownArchitecture, uint32(v))
	}
	return v, nil
}

// Bytes encodes the family as it appears on disk.
func (c CPUFamily) Bytes() [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(c))
	return b
}

// Valid reports whether c is one of the known families.
func (c CPUFamily) Valid() bool {
	switch c {
	case CPUX86, CPUX86_64, CPUARM, CPUARM64:
		return true
	}
	return false
}

// Is64Bit reports whether the 64-bit mask is set.
func (c CPUFamily) Is64Bit() bool {
	return c&cpuArch64 != 0
}

// Base strips the 64-bit mask.
func (c CPUFamily) Base() CPUFamily {
	return c &^ cpuArch64
}

func (c CPUFamily) String() string {
	switch c {
	case CPUX86:
		return "x86"
	case CPUX86_64:
		return "x86_64"
	case CPUARM:
		return "arm"
	case CPUARM64:
		return "arm64"
	default:
		return fmt.Sprintf("cputype(%#x)", uint32(c))
	}
}

// ParseCPUFamily accepts display names and the usual aliases (i386, amd64, aarch64).
func ParseCPUFamily(s string) (CPUFamily, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "x86", "i386":
		return CPUX86, nil
	case "x86_64", "amd64", "x86-64":
		return CPUX86_64, nil
	case "arm":
		return CPUARM, nil
	case "arm64", "aarch64":
		return CPUARM64, nil
	default:
		return 0, fmt.Errorf("%w: %q (supported: x86, x86_64, arm, arm64)", ErrUnknownArchitecture, s)
	}
}

// DefaultAlign is the conventional slice alignment for a family.
func DefaultAlign(c CPUFamily) Align {
	if c.Base() == CPUARM {
		return 14
	}
	return 12
}
