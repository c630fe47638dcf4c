package providers

import (
	"regexp"
	"strings"
)

// A language tag (```xml, ```c++) is only part of a fence when a newline
// follows it. ```svg is always a fence marker.
var codeFencePattern = regexp.MustCompile("```(?:[A-Za-z0-9_+.-]+\r?\n|svg)?")

// StripCodeFences removes Markdown code fence markers and the whitespace
// around the remaining text.
func StripCodeFences(s string) string {
	return strings.TrimSpace(codeFencePattern.ReplaceAllString(s, ""))
}
