// Package sanitize strips comments from source text so diffs can ignore
// comment-only edits. This is a lexical, regex-based strip, not a tokenizer:
// comment-like sequences inside string or character literals will be eaten
// too. That trade-off is deliberate; the consumers only need comment-free
// content for equivalence checks, not compilable output.
package sanitize

import (
	"path/filepath"
	"regexp"
	"strings"
)

// supportedExtensions lists the source extensions comment removal applies
// to. Everything else passes through untouched.
var supportedExtensions = []string{
	".c", ".cpp", ".h", ".hpp", ".cc", ".cxx", ".c++", ".h++", ".cs",
	".m", ".mm",
	".java",
	".js", ".jsx", ".ts", ".tsx",
	".proto",
	".swift",
	".kt",
	".go",
	".rs",
}

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`//[^\n]*`)
)

// Supported reports whether comment removal applies to the given path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range supportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// Strip removes block and line comments from content when the path's
// extension is supported. Empty and all-whitespace content collapses to the
// empty string without any comment processing.
func Strip(content, path string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if !Supported(path) {
		return content
	}
	content = blockComment.ReplaceAllString(content, "")
	return lineComment.ReplaceAllString(content, "")
}

// File applies Strip to optional content: absent stays absent.
func File(content *string, path string) *string {
	if content == nil {
		return nil
	}
	stripped := Strip(*content, path)
	return &stripped
}
