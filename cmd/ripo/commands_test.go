package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samcharles93/ripo/internal/logger"
	"github.com/samcharles93/ripo/pkg/fat"
)

func testContext() context.Context {
	return logger.WithContext(context.Background(), logger.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeInputs(t *testing.T, dir string) []string {
	t.Helper()
	amd := filepath.Join(dir, "tool-amd64")
	arm := filepath.Join(dir, "tool-arm64")
	if err := os.WriteFile(amd, []byte("x86_64 code"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if err := os.WriteFile(arm, []byte("arm64 code!"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return []string{"x86_64::4=" + amd, "arm64::4=" + arm}
}

func TestCreateArchsExtract(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	dir := t.TempDir()
	out := filepath.Join(dir, "bin", "tool")
	if err := runCreate(ctx, Config{}, out, writeInputs(t, dir)); err != nil {
		t.Fatalf("create: %v", err)
	}

	var names bytes.Buffer
	if err := runArchs(ctx, &names, out, false, false); err != nil {
		t.Fatalf("archs: %v", err)
	}
	if got := strings.TrimSpace(names.String()); got != "x86_64 arm64" {
		t.Fatalf("archs output: %q", got)
	}

	slices := filepath.Join(dir, "slices")
	written, err := runExtract(ctx, out, slices, []string{"arm64"}, nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if diff := cmp.Diff([]string{filepath.Join(slices, "tool.arm64")}, written); diff != "" {
		t.Fatalf("written paths (-want +got):\n%s", diff)
	}
	got, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatalf("read slice: %v", err)
	}
	if string(got) != "arm64 code!" {
		t.Fatalf("slice content: %q", got)
	}
}

func TestExtractUnknownArch(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	dir := t.TempDir()
	out := filepath.Join(dir, "tool")
	if err := runCreate(ctx, Config{}, out, writeInputs(t, dir)); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := runExtract(ctx, out, dir, []string{"arm"}, nil)
	if err == nil {
		t.Fatal("expected error for absent architecture")
	}
	if !strings.Contains(err.Error(), "x86_64, arm64") {
		t.Fatalf("error should list available arches: %v", err)
	}
}

func TestCreateRejectsDuplicates(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	dir := t.TempDir()
	inputs := writeInputs(t, dir)
	out := filepath.Join(dir, "tool")
	err := runCreate(ctx, Config{}, out, []string{inputs[1], inputs[1]})
	if err == nil {
		t.Fatal("expected duplicate architecture error")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatalf("output left behind after failure: %v", statErr)
	}
}

func TestInfoVerify(t *testing.T) {
	t.Parallel()

	ctx := testContext()
	dir := t.TempDir()
	out := filepath.Join(dir, "tool")
	if err := runCreate(ctx, Config{}, out, writeInputs(t, dir)); err != nil {
		t.Fatalf("create: %v", err)
	}

	var buf bytes.Buffer
	if err := runInfo(ctx, &buf, out, false, true); err != nil {
		t.Fatalf("info: %v", err)
	}
	text := buf.String()
	for _, want := range []string{"nfat_arch 2", "architecture x86_64", "architecture arm64", "align 2^4 (16)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("info output missing %q:\n%s", want, text)
		}
	}

	// Push the second slice past the end of the file.
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	f, err := fat.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	broken := filepath.Join(dir, "broken")
	if err := os.WriteFile(broken, data[:f.Arches[1].Offset+1], 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	buf.Reset()
	if err := runInfo(ctx, &buf, broken, false, true); err == nil {
		t.Fatal("expected verify failure for truncated slice")
	}
	if buf.Len() == 0 {
		t.Fatal("report should still be printed before verify fails")
	}
}

func TestExtractRepeatedDescriptors(t *testing.T) {
	t.Parallel()

	// Two arm64 subtype 0 descriptors, which the builder refuses to produce.
	raw := []byte(fat.Magic)
	raw = binary.BigEndian.AppendUint32(raw, 2)
	for _, off := range []uint32{48, 52} {
		raw = binary.BigEndian.AppendUint32(raw, uint32(fat.CPUARM64))
		raw = binary.BigEndian.AppendUint32(raw, 0)
		raw = binary.BigEndian.AppendUint32(raw, off)
		raw = binary.BigEndian.AppendUint32(raw, 4)
		raw = binary.BigEndian.AppendUint32(raw, 0)
	}
	raw = append(raw, "AAAABBBB"...)

	dir := t.TempDir()
	src := filepath.Join(dir, "u")
	if err := os.WriteFile(src, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	outDir := filepath.Join(dir, "out")
	written, err := runExtract(testContext(), src, outDir, nil, nil)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(written) != 2 || written[0] == written[1] {
		t.Fatalf("expected two distinct outputs, got %v", written)
	}
	for i, want := range []string{"AAAA", "BBBB"} {
		got, err := os.ReadFile(written[i])
		if err != nil {
			t.Fatalf("read %s: %v", written[i], err)
		}
		if string(got) != want {
			t.Fatalf("%s: got %q, want %q", written[i], got, want)
		}
	}
	ents, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(ents) != 2 {
		t.Fatalf("expected 2 files in %s, got %d", outDir, len(ents))
	}
}
