// Package fat implements the universal (multi-architecture) executable container.
//
// A container is a big-endian header, a table of fixed-size architecture
// descriptors and the thin binaries those descriptors point at. The package
// parses and builds containers; it never looks inside the embedded binaries.
package fat

// Format constants must never change.
const (
	// Magic is the first four bytes of every container.
	Magic = "\xca\xfe\xba\xbe"

	// HeaderSize covers the magic and the descriptor count.
	HeaderSize = 8

	// ArchSize is the on-disk size of one descriptor record.
	ArchSize = 20
)

// Arch describes one embedded slice.
type Arch struct {
	Family  CPUFamily
	Subtype uint32
	Offset  uint32
	Size    uint32
	Align   Align
}

// End returns the first byte past the slice.
func (a Arch) End() uint64 {
	return uint64(a.Offset) + uint64(a.Size)
}

func (a Arch) String() string {
	return a.Family.String()
}

func tableSize(n uint32) uint64 {
	return HeaderSize + uint64(n)*ArchSize
}
