package fat

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// extractPrealloc caps the up-front buffer so a bogus size in a foreign
// descriptor cannot force a huge allocation before the short read is seen.
const extractPrealloc = 1 << 20

// Extract reads exactly a.Size bytes at a.Offset from r.
//
// Extract moves r's cursor. Concurrent calls must use independent handles
// (for example one *os.File or bytes.Reader per goroutine).
func Extract(r io.ReadSeeker, a Arch) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(int(min(uint64(a.Size), extractPrealloc)))
	if _, err := ExtractTo(&buf, r, a); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExtractTo streams the slice described by a from r into w.
// On failure w may already hold a prefix of the slice.
func ExtractTo(w io.Writer, r io.ReadSeeker, a Arch) (int64, error) {
	if r == nil {
		return 0, ioError("extract", os.ErrClosed)
	}
	if _, err := r.Seek(int64(a.Offset), io.SeekStart); err != nil {
		return 0, ioError("seek", err)
	}
	n, err := io.CopyN(w, r, int64(a.Size))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return n, fmt.Errorf("%w: %s slice [%d, %d) ends at %d", ErrOutOfBounds, a, a.Offset, a.End(), uint64(a.Offset)+uint64(n))
		}
		return n, ioError("read", err)
	}
	return n, nil
}

// Extract returns the payload of a.
func (f *File) Extract(a Arch) ([]byte, error) {
	return Extract(f.src, a)
}

// ExtractTo streams the payload of a into w.
func (f *File) ExtractTo(w io.Writer, a Arch) (int64, error) {
	return ExtractTo(w, f.src, a)
}

// ExtractAll returns every payload in descriptor order. It fails as a whole:
// no partial result is returned.
func (f *File) ExtractAll() ([][]byte, error) {
	out := make([][]byte, 0, len(f.Arches))
	for i, a := range f.Arches {
		b, err := f.Extract(a)
		if err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}
