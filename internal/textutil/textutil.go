// Package textutil holds the small string clean-ups shared by the
// normalizers: width folding and whitespace collapsing.
package textutil

import (
	"strings"

	"golang.org/x/text/width"
)

// Fold maps full-width forms (digits, latin letters, tildes, dashes) to their
// narrow equivalents so that "１５Ｋ～２０Ｋ" reads like "15K~20K".
func Fold(s string) string {
	return width.Fold.String(s)
}

// CollapseSpace trims s and replaces every run of whitespace (including
// non-breaking spaces) with a single ASCII space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
