package exmerge

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultTemplateName is used when an uploaded file name sanitizes to nothing.
const DefaultTemplateName = "template.xlsx"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename reduces an uploaded file name to a safe ASCII base name.
// Slashes become spaces and whitespace runs become underscores. Any other
// character outside [A-Za-z0-9_.-] is dropped, backslashes included, and so
// are leading or trailing dots and underscores.
func SanitizeFilename(name string) string {
	name = norm.NFKD.String(name)
	var b strings.Builder
	for _, r := range name {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	name = strings.ReplaceAll(b.String(), "/", " ")
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	if name == "" {
		return DefaultTemplateName
	}
	return name
}
