package sanitize

import (
	"strings"
	"testing"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
		want    string
	}{
		{
			name:    "line and block comments",
			content: "int a; // keep until here\n/* drop */int b;",
			path:    "src/x.c",
			want:    "int a; \nint b;",
		},
		{
			name:    "block comment spanning lines",
			content: "before\n/* one\ntwo\nthree */after\n",
			path:    "eval.cpp",
			want:    "before\nafter\n",
		},
		{
			name:    "non greedy block match",
			content: "/* a */ keep /* b */\n",
			path:    "x.go",
			want:    " keep \n",
		},
		{
			name:    "unsupported extension untouched",
			content: "# a shell comment // not stripped\n",
			path:    "build.sh",
			want:    "# a shell comment // not stripped\n",
		},
		{
			name:    "no extension untouched",
			content: "// looks like a comment\n",
			path:    "Makefile",
			want:    "// looks like a comment\n",
		},
		{
			name:    "empty content",
			content: "",
			path:    "x.c",
			want:    "",
		},
		{
			name:    "whitespace only collapses to empty",
			content: "  \n\t \n",
			path:    "x.c",
			want:    "",
		},
		{
			name:    "whitespace only collapses even for unsupported extensions",
			content: "   \n",
			path:    "notes.txt",
			want:    "",
		},
		{
			name:    "comment only file strips to nothing",
			content: "// header\n/* body */\n",
			path:    "x.c",
			want:    "\n\n",
		},
		{
			name:    "case insensitive extension",
			content: "int a; // gone\n",
			path:    "X.CPP",
			want:    "int a; \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Strip(tt.content, tt.path); got != tt.want {
				t.Errorf("Strip(%q, %q) = %q, expected %q", tt.content, tt.path, got, tt.want)
			}
		})
	}
}

func TestStrip_NoCommentTextSurvives(t *testing.T) {
	content := "int a; // keep until here\n/* drop */int b;"
	got := Strip(content, "x.c")
	for _, leak := range []string{"keep until here", "drop", "//", "/*", "*/"} {
		if strings.Contains(got, leak) {
			t.Errorf("comment text %q survived in %q", leak, got)
		}
	}
	for _, code := range []string{"int a;", "int b;"} {
		if !strings.Contains(got, code) {
			t.Errorf("code %q was lost in %q", code, got)
		}
	}
}

func TestFile(t *testing.T) {
	if File(nil, "x.c") != nil {
		t.Error("absent content must stay absent")
	}

	content := "int a; // c\n"
	got := File(&content, "x.c")
	if got == nil || *got != "int a; \n" {
		t.Errorf("File = %v, expected stripped content", got)
	}

	empty := ""
	got = File(&empty, "x.c")
	if got == nil || *got != "" {
		t.Error("empty content must stay present and empty")
	}
}

func TestSupported(t *testing.T) {
	for _, path := range []string{"a.c", "b.cpp", "c.h++", "d.rs", "e.kt", "engine/search.GO"} {
		if !Supported(path) {
			t.Errorf("Supported(%q) = false", path)
		}
	}
	for _, path := range []string{"a.py", "b.txt", "c", "d.md", "e.sh"} {
		if Supported(path) {
			t.Errorf("Supported(%q) = true", path)
		}
	}
}
