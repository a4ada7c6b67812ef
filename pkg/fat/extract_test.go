package fat

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestExtractOutOfBounds(t *testing.T) {
	t.Parallel()

	raw, err := Build([]Entry{{Family: CPUARM64, Align: 2, Payload: []byte("payload")}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	f, err := Parse(bytes.NewReader(raw[:len(raw)-3]))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got, err := f.Extract(f.Arches[0])
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected no data on failure, got %q", got)
	}
	if _, err := f.ExtractAll(); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("ExtractAll: expected ErrOutOfBounds, got %v", err)
	}
	if err := f.Verify(); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("Verify: expected ErrOutOfBounds, got %v", err)
	}
}

func TestExtractOffsetPastEnd(t *testing.T) {
	t.Parallel()

	src := bytes.NewReader(make([]byte, 64))
	_, err := Extract(src, Arch{Family: CPUX86_64, Offset: 1 << 20, Size: 16})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestExtractHugeForeignSize(t *testing.T) {
	t.Parallel()

	src := bytes.NewReader(make([]byte, 64))
	_, err := Extract(src, Arch{Family: CPUARM64, Offset: 32, Size: 0xffffffff})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestExtractToStreams(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("slice"), 1000)
	raw, err := Build([]Entry{{Family: CPUX86_64, Align: 12, Payload: payload}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	f, err := Parse(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out bytes.Buffer
	n, err := f.ExtractTo(&out, f.Arches[0])
	if err != nil {
		t.Fatalf("extract to: %v", err)
	}
	if n != int64(len(payload)) || !bytes.Equal(out.Bytes(), payload) {
		t.Fatalf("streamed payload mismatch: n=%d", n)
	}
}

func TestExtractClosedFile(t *testing.T) {
	t.Parallel()

	raw, err := Build([]Entry{{Family: CPUARM64, Payload: []byte("x")}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	f, err := Parse(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := f.Extract(f.Arches[0]); !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO after close, got %v", err)
	}
}

func TestConcurrentExtractIndependentHandles(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Family: CPUX86_64, Align: 12, Payload: bytes.Repeat([]byte{1}, 10000)},
		{Family: CPUARM64, Align: 14, Payload: bytes.Repeat([]byte{2}, 10000)},
		{Family: CPUARM, Align: 14, Payload: bytes.Repeat([]byte{3}, 10000)},
	}
	raw, err := Build(entries)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	path := filepath.Join(t.TempDir(), "universal")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = f.Close() }()

	var wg sync.WaitGroup
	errs := make(chan error, len(f.Arches)*4)
	for round := 0; round < 4; round++ {
		for i, a := range f.Arches {
			wg.Add(1)
			go func() {
				defer wg.Done()
				h, err := os.Open(path)
				if err != nil {
					errs <- err
					return
				}
				defer func() { _ = h.Close() }()
				got, err := Extract(h, a)
				if err != nil {
					errs <- err
					return
				}
				if !bytes.Equal(got, entries[i].Payload) {
					errs <- errors.New("payload mismatch for " + a.String())
				}
			}()
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
