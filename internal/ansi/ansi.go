// Package ansi removes terminal control sequences from log text.
package ansi

import (
	"regexp"
	"strings"
)

// csi matches ESC [ parameter bytes, intermediate bytes, final byte.
var csi = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]`)

// Strip returns s with every CSI escape sequence removed.
func Strip(s string) string {
	if strings.IndexByte(s, 0x1b) < 0 {
		return s
	}
	return csi.ReplaceAllString(s, "")
}
