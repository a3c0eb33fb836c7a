// Package profile provides the provider that places a marker-delimited
// environment fragment into shell startup files. The begin marker is
// the only idempotency signal per file: once present, the file is never
// touched again, even if the fragment content has since changed.
package profile

import (
	"os"
	"strings"

	"github.com/groundwork-sh/groundwork/internal/ports"
)

const (
	markerPrefix = "# >>> groundwork "
	markerSuffix = " >>>"
	endPrefix    = "# <<< groundwork "
	endSuffix    = " <<<"
)

// BeginMarker returns the line that opens a managed block.
func BeginMarker(section string) string {
	return markerPrefix + section + markerSuffix
}

// EndMarker returns the line that closes a managed block.
func EndMarker(section string) string {
	return endPrefix + section + endSuffix
}

// HasBlock reports whether the content already carries the begin marker
// for the section.
func HasBlock(content, section string) bool {
	return strings.Contains(content, BeginMarker(section))
}

// RenderBlock returns the full managed block, markers included, with a
// trailing newline.
func RenderBlock(section, body string) string {
	var b strings.Builder
	b.WriteString(BeginMarker(section))
	b.WriteByte('\n')
	b.WriteString(strings.TrimRight(body, "\n"))
	b.WriteByte('\n')
	b.WriteString(EndMarker(section))
	b.WriteByte('\n')
	return b.String()
}

// AppendBlock appends the managed block to the file unless the begin
// marker is already present. A missing file is created with the given
// mode. Returns true when the file was modified.
func AppendBlock(fs ports.FileSystem, path, section, body string, perm os.FileMode) (bool, error) {
	var content string
	if fs.Exists(path) {
		data, err := fs.ReadFile(path)
		if err != nil {
			return false, err
		}
		content = string(data)
	}

	if HasBlock(content, section) {
		return false, nil
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if content != "" {
		content += "\n"
	}
	content += RenderBlock(section, body)

	if err := fs.WriteFile(path, []byte(content), perm); err != nil {
		return false, err
	}
	return true, nil
}
