package fat

import (
	"fmt"
	"strings"
)

// Format renders a descriptor the way `lipo -detailed_info` does.
func Format(a Arch) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "architecture %s\n", a.Family)
	fmt.Fprintf(&sb, "    cpusubtype %d\n", a.Subtype)
	fmt.Fprintf(&sb, "    offset %d\n", a.Offset)
	fmt.Fprintf(&sb, "    size %d\n", a.Size)
	if n, ok := a.Align.Bytes(); ok {
		fmt.Fprintf(&sb, "    align %s (%d)\n", a.Align, n)
	} else {
		fmt.Fprintf(&sb, "    align %s\n", a.Align)
	}
	return sb.String()
}
