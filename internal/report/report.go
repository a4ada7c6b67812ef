// Package report turns a parsed container into something to show a person or
// another program: lipo-style text, a table, or JSON.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"

	"github.com/samcharles93/ripo/pkg/fat"
)

type ArchReport struct {
	Arch       string `json:"arch"`
	CPUType    uint32 `json:"cputype"`
	CPUSubtype uint32 `json:"cpusubtype"`
	Offset     uint32 `json:"offset"`
	Size       uint32 `json:"size"`
	Align      uint32 `json:"align"`
	AlignBytes uint64 `json:"align_bytes,omitempty"`
}

type Report struct {
	Path   string       `json:"path,omitempty"`
	Size   int64        `json:"size"`
	Magic  string       `json:"magic"`
	Arches []ArchReport `json:"arches"`

	arches []fat.Arch
}

// NewArch converts one descriptor.
func NewArch(a fat.Arch) ArchReport {
	ar := ArchReport{
		Arch:       a.Family.String(),
		CPUType:    uint32(a.Family),
		CPUSubtype: a.Subtype,
		Offset:     a.Offset,
		Size:       a.Size,
		Align:      uint32(a.Align),
	}
	if n, ok := a.Align.Bytes(); ok {
		ar.AlignBytes = n
	}
	return ar
}

// New builds a report for f. path is informational and may be empty.
func New(path string, f *fat.File) Report {
	r := Report{
		Path:   path,
		Size:   f.Size(),
		Magic:  fmt.Sprintf("%#x", f.Magic[:]),
		Arches: make([]ArchReport, 0, len(f.Arches)),
		arches: append([]fat.Arch(nil), f.Arches...),
	}
	for _, a := range f.Arches {
		r.Arches = append(r.Arches, NewArch(a))
	}
	return r
}

// Names lists architecture names in on-disk order.
func (r Report) Names() []string {
	names := make([]string, len(r.Arches))
	for i, a := range r.Arches {
		names[i] = a.Arch
	}
	return names
}

// WriteNames prints the space separated architecture list.
func WriteNames(w io.Writer, r Report) error {
	_, err := fmt.Fprintln(w, strings.Join(r.Names(), " "))
	return err
}

// WriteText prints the fat header followed by every descriptor.
func WriteText(w io.Writer, r Report) error {
	var sb strings.Builder
	if r.Path != "" {
		fmt.Fprintf(&sb, "Fat header in: %s\n", r.Path)
	}
	fmt.Fprintf(&sb, "fat_magic %s\n", r.Magic)
	fmt.Fprintf(&sb, "nfat_arch %d\n", len(r.arches))
	for _, a := range r.arches {
		sb.WriteString(fat.Format(a))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteTable prints one row per descriptor.
func WriteTable(w io.Writer, r Report) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Arch", "Subtype", "Offset", "Size", "Align"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for i, a := range r.Arches {
		table.Append([]string{
			strconv.Itoa(i),
			a.Arch,
			strconv.FormatUint(uint64(a.CPUSubtype), 10),
			strconv.FormatUint(uint64(a.Offset), 10),
			strconv.FormatUint(uint64(a.Size), 10),
			fat.Align(a.Align).String(),
		})
	}
	table.Render()
	return nil
}

// WriteJSON prints r as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
