package fat

import (
	"bytes"
	"fmt"
	"io"
	"math"
)

const writerPadBufSize = 4096

// Entry is one thin binary to place in a container.
type Entry struct {
	Family  CPUFamily
	Subtype uint32
	Align   Align
	Payload []byte
}

// Layout computes the descriptors for entries without writing anything.
// Payloads follow the descriptor table in input order, each start rounded up
// to its own alignment. It returns the descriptors and the total file size.
func Layout(entries []Entry) ([]Arch, int64, error) {
	if len(entries) == 0 {
		return nil, 0, ErrEmptyInput
	}
	if uint64(len(entries)) > (math.MaxUint32-HeaderSize)/ArchSize {
		return nil, 0, fmt.Errorf("%w: %d entries", ErrTooLarge, len(entries))
	}

	type key struct {
		fam CPUFamily
		sub uint32
	}
	seen := make(map[key]struct{}, len(entries))

	arches := make([]Arch, len(entries))
	off := tableSize(uint32(len(entries)))
	for i, e := range entries {
		if !e.Family.Valid() {
			return nil, 0, fmt.Errorf("entry %d: %w: cputype %#x", i, ErrUnknownArchitecture, uint32(e.Family))
		}
		k := key{e.Family, e.Subtype}
		if _, ok := seen[k]; ok {
			return nil, 0, fmt.Errorf("%w: %s subtype %d", ErrDuplicateArch, e.Family, e.Subtype)
		}
		seen[k] = struct{}{}

		if e.Align > MaxAlign {
			return nil, 0, fmt.Errorf("entry %d: %w: %s", i, ErrAlignment, e.Align)
		}
		start, ok := e.Align.alignUp(off)
		if !ok {
			return nil, 0, fmt.Errorf("entry %d: %w", i, ErrTooLarge)
		}
		end := start + uint64(len(e.Payload))
		if end > math.MaxUint32 {
			return nil, 0, fmt.Errorf("entry %d: %w: slice ends at %d", i, ErrTooLarge, end)
		}
		arches[i] = Arch{
			Family:  e.Family,
			Subtype: e.Subtype,
			Offset:  uint32(start),
			Size:    uint32(len(e.Payload)),
			Align:   e.Align,
		}
		off = end
	}
	return arches, int64(off), nil
}

// Write serialises a container holding entries to w.
// Padding between payloads is zero-filled.
func Write(w io.Writer, entries []Entry) (int64, error) {
	arches, total, err := Layout(entries)
	if err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}

	head := make([]byte, tableSize(uint32(len(arches))))
	if !encodeHeader(head, uint32(len(arches))) {
		return 0, fmt.Errorf("%w: encode header failed", ErrInvalidLayout)
	}
	for i, a := range arches {
		if !encodeArch(head[HeaderSize+i*ArchSize:], a) {
			return 0, fmt.Errorf("%w: encode descriptor %d failed", ErrInvalidLayout, i)
		}
	}
	if err := writeFull(cw, head); err != nil {
		return cw.n, ioError("write header", err)
	}

	pad := make([]byte, writerPadBufSize)
	for i, a := range arches {
		if err := writeZeros(cw, pad, int64(a.Offset)-cw.n); err != nil {
			return cw.n, ioError("write padding", err)
		}
		if err := writeFull(cw, entries[i].Payload); err != nil {
			return cw.n, ioError("write payload", err)
		}
	}

	if cw.n != total {
		return cw.n, fmt.Errorf("%w: wrote %d bytes, layout expects %d", ErrInvalidLayout, cw.n, total)
	}
	return cw.n, nil
}

// Build returns a complete container for entries.
func Build(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Write(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}

func writeZeros(w io.Writer, buf []byte, n int64) error {
	for n > 0 {
		chunk := min(n, int64(len(buf)))
		if err := writeFull(w, buf[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
