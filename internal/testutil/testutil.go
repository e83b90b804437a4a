// Package testutil provides shared test helpers for setting up vaults.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TagsNote is the fixture tags note: one group "abc" and the tag "def".
var TagsNote = strings.Join([]string{
	"| Group  | Color |",
	"| :----: | :---: |",
	"| #abc   | color |",
	"",
	"| Tag    | Scope |",
	"| :----: | :---: |",
	"| #abc   | test  |",
	"| #def   | test  |",
}, "\n")

// Note1 has no front matter.
var Note1 = strings.Join([]string{
	"## Subitle",
	"",
	"Sample note with no frontmatter.",
	"",
	"Some more lines here.",
}, "\n")

// Note2 is a draft tagged "def".
var Note2 = strings.Join([]string{
	"---",
	"state: draft",
	"date: 2000-01-01",
	"tags: [def]",
	"---",
	"",
	"",
	"Note with frontmatter.",
}, "\n")

// WriteFiles creates each file (path relative to dir) with its content.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// TestVault creates a temporary vault holding meta/Tags.md, Note1.md and
// Note2.md, and returns its directory.
func TestVault(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "vault")
	WriteFiles(t, dir, map[string]string{
		"meta/Tags.md": TagsNote,
		"Note1.md":     Note1,
		"Note2.md":     Note2,
	})
	return dir
}
