package fat

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// File is a parsed container. Descriptors are read eagerly, slice payloads
// only when one of the Extract methods is called.
//
// A File is not safe for concurrent extraction: all calls share the source's
// seek cursor. Use Extract with independent handles for parallel reads.
type File struct {
	Magic  [4]byte
	Arches []Arch

	src     io.ReadSeeker
	size    int64
	data    []byte
	mmapped bool
	closer  io.Closer
}

// Parse reads the header and descriptor table from r. Offsets are relative to
// the start of r. Descriptors are reported as found: alignment and overlap
// are not checked here (see Verify).
func Parse(r io.ReadSeeker) (*File, error) {
	if r == nil {
		return nil, errors.New("fat: nil source")
	}

	// The stream length only bounds the descriptor count.
	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, ioError("seek", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, ioError("seek", err)
	}

	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:4]); err != nil {
		return nil, headerReadError("magic", err)
	}
	if string(hdr[:4]) != Magic {
		return nil, fmt.Errorf("%w: magic %x", ErrNotAContainer, hdr[:4])
	}
	if _, err := io.ReadFull(r, hdr[4:]); err != nil {
		return nil, headerReadError("descriptor count", err)
	}

	count := binary.BigEndian.Uint32(hdr[4:])
	need := tableSize(count)
	if need > uint64(size) {
		return nil, fmt.Errorf("%w: %d descriptors need %d bytes, source has %d", ErrTruncatedHeader, count, need, size)
	}

	table := make([]byte, int(count)*ArchSize)
	if _, err := io.ReadFull(r, table); err != nil {
		return nil, headerReadError("descriptor table", err)
	}

	arches := make([]Arch, count)
	for i := range arches {
		a, err := decodeArch(table[i*ArchSize : (i+1)*ArchSize])
		if err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", i, err)
		}
		arches[i] = a
	}

	return &File{
		Magic:  [4]byte(hdr[:4]),
		Arches: arches,
		src:    r,
		size:   size,
	}, nil
}

func headerReadError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: short %s", ErrTruncatedHeader, what)
	}
	return ioError("read "+what, err)
}

// Open maps a container file read-only and parses it.
// If mmap is unavailable the open file itself becomes the source.
// The returned file must be closed.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioError("open", err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, ioError("stat", err)
	}
	size := stat.Size()

	if size >= HeaderSize && size <= int64(int(^uint(0)>>1)) {
		data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
		// The mapping outlives the descriptor.
		_ = f.Close()
		if err == nil {
			ff, perr := Parse(bytes.NewReader(data))
			if perr != nil {
				_ = unix.Munmap(data)
				return nil, perr
			}
			ff.data = data
			ff.mmapped = true
			return ff, nil
		}
		if f, err = os.Open(path); err != nil {
			return nil, ioError("open", err)
		}
	}

	ff, err := Parse(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	ff.closer = f
	return ff, nil
}

// Close releases the mapping or the underlying file, if the File owns one.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	var err error
	if f.mmapped && f.data != nil {
		err = unix.Munmap(f.data)
	}
	if f.closer != nil {
		if cerr := f.closer.Close(); err == nil {
			err = cerr
		}
	}
	f.data = nil
	f.mmapped = false
	f.closer = nil
	f.src = nil
	return err
}

// Size is the source length observed while parsing.
func (f *File) Size() int64 {
	return f.size
}

// Lookup returns the first descriptor of the given family in on-disk order.
func (f *File) Lookup(c CPUFamily) (Arch, bool) {
	for _, a := range f.Arches {
		if a.Family == c {
			return a, true
		}
	}
	return Arch{}, false
}
