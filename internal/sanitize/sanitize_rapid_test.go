package sanitize

import (
	"strings"
	"testing"

	"pgregory.net/rapid"
)

func genSourceText() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		pieces := rapid.SliceOfN(rapid.SampledFrom([]string{
			"int a;", "foo();", "\n", " ", "// note", "/* block */",
			"x = 1", "*/", "/*", "churn", "\t",
		}), 1, 20).Draw(t, "pieces")
		return strings.Join(pieces, "")
	})
}

func TestStripUnsupportedExtensionIsNoOp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		content := genSourceText().Draw(t, "content")
		if strings.TrimSpace(content) == "" {
			t.Skip("whitespace-only content collapses by contract")
		}
		path := rapid.StringMatching(`[a-z]{1,8}\.(py|txt|md|sh|json)`).Draw(t, "path")
		if got := Strip(content, path); got != content {
			t.Fatalf("Strip modified an unsupported file: %q -> %q", content, got)
		}
	})
}

func TestStripNeverGrowsContent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		content := genSourceText().Draw(t, "content")
		path := rapid.StringMatching(`[a-z]{1,8}\.(c|cpp|go|rs|java)`).Draw(t, "path")
		if got := Strip(content, path); len(got) > len(content) {
			t.Fatalf("Strip grew content from %d to %d bytes", len(content), len(got))
		}
	})
}

func TestFilePreservesAbsence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		path := rapid.StringMatching(`[a-z]{1,8}\.[a-z]{1,4}`).Draw(t, "path")
		if File(nil, path) != nil {
			t.Fatal("absent content became present")
		}
	})
}
