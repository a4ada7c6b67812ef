// Package thin moves single-architecture binaries in and out of containers:
// it reads the files named on the command line, resolves architecture
// selections and writes extracted slices to disk.
package thin

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/samcharles93/ripo/pkg/fat"
)

var (
	ErrInvalidInput = errors.New("thin: invalid input")
	ErrArchNotFound = errors.New("thin: architecture not in container")
)

// Input is one `family[:subtype[:align]]=path` argument.
type Input struct {
	Family   fat.CPUFamily
	Subtype  uint32
	Align    fat.Align
	HasAlign bool
	Path     string
}

// ParseInput parses a create argument such as `arm64=app.arm64` or
// `x86_64:3:12=app.x86_64`.
func ParseInput(arg string) (Input, error) {
	arch, path, ok := strings.Cut(arg, "=")
	if !ok || strings.TrimSpace(path) == "" || strings.TrimSpace(arch) == "" {
		return Input{}, fmt.Errorf("%w: %q (want family[:subtype[:align]]=path)", ErrInvalidInput, arg)
	}

	parts := strings.Split(arch, ":")
	if len(parts) > 3 {
		return Input{}, fmt.Errorf("%w: %q has too many fields", ErrInvalidInput, arg)
	}
	fam, err := fat.ParseCPUFamily(parts[0])
	if err != nil {
		return Input{}, err
	}
	in := Input{Family: fam, Path: path}

	if len(parts) > 1 && parts[1] != "" {
		v, err := strconv.ParseUint(parts[1], 0, 32)
		if err != nil {
			return Input{}, fmt.Errorf("%w: subtype %q: %v", ErrInvalidInput, parts[1], err)
		}
		in.Subtype = uint32(v)
	}
	if len(parts) > 2 && parts[2] != "" {
		v, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil || fat.Align(v) > fat.MaxAlign {
			return Input{}, fmt.Errorf("%w: align %q must be an exponent 0..%d", ErrInvalidInput, parts[2], fat.MaxAlign)
		}
		in.Align = fat.Align(v)
		in.HasAlign = true
	}
	return in, nil
}

// Load reads every input into a builder entry. Inputs without an explicit
// alignment get alignFor(family).
func Load(inputs []Input, alignFor func(fat.CPUFamily) fat.Align) ([]fat.Entry, error) {
	if alignFor == nil {
		alignFor = fat.DefaultAlign
	}
	entries := make([]fat.Entry, 0, len(inputs))
	for _, in := range inputs {
		data, err := os.ReadFile(in.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s input: %w", in.Family, err)
		}
		align := in.Align
		if !in.HasAlign {
			align = alignFor(in.Family)
		}
		entries = append(entries, fat.Entry{
			Family:  in.Family,
			Subtype: in.Subtype,
			Align:   align,
			Payload: data,
		})
	}
	return entries, nil
}

// Select resolves names (`arm64`, `arm64:2`, or a zero-based index) to
// descriptor indices. No names selects everything.
func Select(arches []fat.Arch, names []string) ([]int, error) {
	if len(names) == 0 {
		all := make([]int, len(arches))
		for i := range arches {
			all[i] = i
		}
		return all, nil
	}

	var out []int
	seen := make(map[int]struct{})
	for _, name := range names {
		i, err := Find(arches, name)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	return out, nil
}

// Find resolves a single selector, returning the first match in on-disk order.
func Find(arches []fat.Arch, name string) (int, error) {
	name = strings.TrimSpace(name)
	if idx, err := strconv.Atoi(name); err == nil {
		if idx < 0 || idx >= len(arches) {
			return 0, fmt.Errorf("%w: index %d (have %d)", ErrArchNotFound, idx, len(arches))
		}
		return idx, nil
	}

	famName, subName, hasSub := strings.Cut(name, ":")
	fam, err := fat.ParseCPUFamily(famName)
	if err != nil {
		return 0, err
	}
	var sub uint64
	if hasSub {
		if sub, err = strconv.ParseUint(subName, 0, 32); err != nil {
			return 0, fmt.Errorf("%w: subtype %q", ErrInvalidInput, subName)
		}
	}
	for i, a := range arches {
		if a.Family == fam && (!hasSub || a.Subtype == uint32(sub)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s (available: %s)", ErrArchNotFound, name, available(arches))
}

func available(arches []fat.Arch) string {
	names := make([]string, len(arches))
	for i, a := range arches {
		names[i] = a.String()
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

// OutputPath names the file for one extracted slice: <dir>/<base>.<arch>.
// The subtype is appended when the family occurs more than once, and the
// descriptor index as well when the family and subtype pair repeats, so every
// descriptor gets its own file.
func OutputPath(dir, base string, arches []fat.Arch, i int) string {
	a := arches[i]
	name := base + "." + a.Family.String()
	sameFamily, samePair := false, false
	for j, b := range arches {
		if j == i || b.Family != a.Family {
			continue
		}
		sameFamily = true
		if b.Subtype == a.Subtype {
			samePair = true
		}
	}
	if sameFamily {
		name += "." + strconv.FormatUint(uint64(a.Subtype), 10)
	}
	if samePair {
		name += "." + strconv.Itoa(i)
	}
	return filepath.Join(dir, name)
}

// WriteSlice extracts a from f into path. When progress is non-nil a
// byte progress bar is drawn on it.
func WriteSlice(f *fat.File, a fat.Arch, path string, progress io.Writer) (int64, error) {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return 0, err
	}

	var w io.Writer = out
	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = progressbar.NewOptions64(int64(a.Size),
			progressbar.OptionSetWriter(progress),
			progressbar.OptionSetDescription(a.String()),
			progressbar.OptionShowBytes(true),
			progressbar.OptionClearOnFinish(),
		)
		w = io.MultiWriter(out, bar)
	}

	n, err := f.ExtractTo(w, a)
	if bar != nil {
		_ = bar.Finish()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return n, err
	}
	return n, nil
}
