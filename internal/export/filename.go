package export

import (
	"regexp"
	"strings"
	"unicode"
)

// invalidFilenameChars are characters download managers or filesystems
// reject in attachment names.
var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

const maxFilenameRunes = 120

// sanitizeFilename cleans a user-supplied or search-derived download name.
// Control and invisible characters are stripped, reserved characters become
// underscores and overlong names are truncated. A name that sanitizes to
// nothing falls back to the caller's default.
func sanitizeFilename(name string, fallback string) string {
	trimmed := strings.TrimSpace(name)

	builder := strings.Builder{}
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if unicode.IsControl(char) || unicode.Is(unicode.Cf, char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(builder.String(), "_"))
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" {
		return fallback
	}

	// Truncate by runes (not bytes) to avoid splitting multi-byte characters.
	runes := []rune(cleaned)
	if len(runes) > maxFilenameRunes {
		runes = runes[:maxFilenameRunes]
	}
	return string(runes)
}
