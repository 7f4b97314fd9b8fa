package domain

import (
	"regexp"
	"strings"
)

// unsafeChars matches characters that are invalid or risky in file names
// on common filesystems, plus ASCII control characters.
var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*` + "\x00-\x1f" + `]`)

const (
	maxKeyRunes    = 200
	fallbackKey    = "untitled"
	summarySuffix  = "-summary.md"
	documentSuffix = ".pdf"
)

// NormalizeTitle maps a raw paper title to a stable, filesystem-safe
// cache key. Deterministic and total: every input yields a non-empty
// key. Titles differing only in replaced characters may collide; that
// is accepted rather than corrected.
func NormalizeTitle(title string) string {
	key := unsafeChars.ReplaceAllString(title, "_")
	key = strings.TrimSpace(key)

	runes := []rune(key)
	if len(runes) > maxKeyRunes {
		key = string(runes[:maxKeyRunes])
	}
	if key == "" {
		return fallbackKey
	}
	return key
}

// SummaryFileName returns the summary artifact name for a key.
func SummaryFileName(key string) string {
	return key + summarySuffix
}

// DocumentFileName returns the document cache artifact name for a key.
func DocumentFileName(key string) string {
	return key + documentSuffix
}

// SummarySuffix exposes the artifact naming pattern for index scans.
func SummarySuffix() string {
	return summarySuffix
}
