package textutil

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// stemSeparatorPattern matches runs of characters that carry no meaning when
// comparing filenames across naming conventions.
var stemSeparatorPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Stem returns the final path element of name without its last extension.
// Both slash styles are accepted because XBVR reports paths from whichever
// host scanned the volume. Dotfiles keep their full name.
func Stem(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	ext := path.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// Ext returns the lower-cased extension of name, including the leading dot.
func Ext(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := path.Ext(base)
	if ext == base {
		return ""
	}
	return strings.ToLower(ext)
}

// FoldedStem returns the case-folded stem of name, suitable as a search query.
// A Caser keeps state, so each call builds its own to stay goroutine-safe.
func FoldedStem(name string) string {
	return cases.Fold().String(Stem(name))
}

// CleanStem case-folds the stem of name and collapses every run of
// non-alphanumeric characters into a single space, so "My_Scene - 4K.mp4"
// and "my scene 4k.mkv" compare equal.
func CleanStem(name string) string {
	return stemSeparatorPattern.ReplaceAllString(FoldedStem(name), " ")
}
