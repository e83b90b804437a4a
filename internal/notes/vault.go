// Package notes models a vault of Markdown notes: per-note metadata derived
// from front matter and tables, and the tag registry kept in a tags note.
package notes

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/starford/notes/internal/apperr"
	"github.com/starford/notes/internal/markdown"
	"github.com/starford/notes/internal/storage"
)

const mdExt = ".md"

// Table columns read from the tags note.
const (
	groupColumn = "group"
	tagColumn   = "tag"
)

// Vault is a directory of notes with an optional tags note.
type Vault struct {
	store    storage.Provider
	tagsNote *Note
	logger   *slog.Logger

	allTags    []Tag
	tagsLoaded bool
}

// Option configures a Vault.
type Option func(*Vault)

// WithTagsNote designates the note holding the group and tag tables.
// An empty name leaves the vault without a tag registry.
func WithTagsNote(name string) Option {
	return func(v *Vault) {
		if name != "" {
			v.tagsNote = v.Note(name)
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Vault) {
		v.logger = logger
	}
}

// NewVault creates a vault over store.
func NewVault(store storage.Provider, opts ...Option) *Vault {
	v := &Vault{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Open creates a vault rooted at dir, which must exist.
func Open(dir string, opts ...Option) (*Vault, error) {
	store, err := storage.NewFS(dir)
	if err != nil {
		return nil, err
	}
	return NewVault(store, opts...), nil
}

// Path returns the absolute vault directory.
func (v *Vault) Path() string {
	return v.store.Root()
}

// Store returns the file provider backing the vault.
func (v *Vault) Store() storage.Provider {
	return v.store
}

// TagsNote returns the designated tags note, or nil.
func (v *Vault) TagsNote() *Note {
	return v.tagsNote
}

// Note returns the note with the given name. The file may not exist.
func (v *Vault) Note(name string) *Note {
	return &Note{vault: v, path: withMarkdownExt(path.Clean(filepath.ToSlash(name)))}
}

// Notes resolves pattern against the vault. Files at any depth under a
// matching directory come first, then files matching the pattern directly;
// each group is sorted by path. An empty pattern means "*".
func (v *Vault) Notes(pattern string) ([]*Note, error) {
	pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
	if pattern == "" {
		pattern = "*"
	}

	under, err := glob.Compile(pattern+"/**"+mdExt, '/')
	if err != nil {
		return nil, fmt.Errorf("notes: pattern %q: %w", pattern, apperr.ErrInvalidFormat)
	}
	direct, err := glob.Compile(withMarkdownExt(pattern), '/')
	if err != nil {
		return nil, fmt.Errorf("notes: pattern %q: %w", pattern, apperr.ErrInvalidFormat)
	}

	files, err := v.store.List("")
	if err != nil {
		return nil, err
	}

	var nested, flat []string
	for _, f := range files {
		if under.Match(f) {
			nested = append(nested, f)
		}
		if direct.Match(f) {
			flat = append(flat, f)
		}
	}
	sort.Strings(nested)
	sort.Strings(flat)

	out := make([]*Note, 0, len(nested)+len(flat))
	for _, f := range append(nested, flat...) {
		out = append(out, &Note{vault: v, path: f})
	}
	v.logger.Debug("vault: resolved notes", slog.String("pattern", pattern), slog.Int("count", len(out)))
	return out, nil
}

// Tags returns the tags used by notes matching pattern, sorted by name.
// The pattern "*" returns the whole registry when it is not empty.
func (v *Vault) Tags(pattern string) ([]Tag, error) {
	if pattern == "" {
		pattern = "*"
	}
	if pattern == "*" {
		all, err := v.AllTags()
		if err != nil {
			return nil, err
		}
		if len(all) > 0 {
			return all, nil
		}
	}

	notes, err := v.Notes(pattern)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]Tag)
	for _, n := range notes {
		tags, err := n.Tags()
		if err != nil {
			return nil, err
		}
		for _, t := range tags {
			seen[t.Name] = t
		}
	}
	out := make([]Tag, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	SortTags(out)
	return out, nil
}

// AllTags returns the tag registry built from the tags note. The result is
// cached until Reload.
func (v *Vault) AllTags() ([]Tag, error) {
	if v.tagsLoaded {
		return v.allTags, nil
	}
	if v.tagsNote == nil {
		v.tagsLoaded = true
		return nil, nil
	}

	tables, err := v.tagsNote.Tables()
	if err != nil {
		return nil, fmt.Errorf("notes: tags note %s: %w", v.tagsNote.Name(), err)
	}
	if len(tables) < 2 {
		return nil, fmt.Errorf("notes: tags note %s needs a group table and a tag table, found %d table(s): %w",
			v.tagsNote.Name(), len(tables), apperr.ErrInvalidFormat)
	}

	v.allTags = buildRegistry(tables[0], tables[1])
	v.tagsLoaded = true
	v.logger.Debug("vault: loaded tag registry",
		slog.String("note", v.tagsNote.Name()),
		slog.Int("tags", len(v.allTags)))
	return v.allTags, nil
}

// Reload drops the cached registry and tags note so the next access rereads it.
func (v *Vault) Reload() {
	v.allTags = nil
	v.tagsLoaded = false
	if v.tagsNote != nil {
		v.tagsNote = v.Note(v.tagsNote.Name())
	}
}

// buildRegistry walks the tag column in order. Entries that appear in the
// group table switch the current group and are not tags themselves.
func buildRegistry(groupTable, tagTable markdown.Table) []Tag {
	groups := make(map[string]struct{}, len(groupTable))
	for _, row := range groupTable {
		if g, ok := row[groupColumn]; ok {
			groups[g] = struct{}{}
		}
	}

	group := GroupUnknown
	var tags []Tag
	for _, row := range tagTable {
		name := row[tagColumn]
		if name == "" {
			continue
		}
		if _, ok := groups[name]; ok {
			group = strings.TrimLeft(name, "#")
			continue
		}
		tags = append(tags, NewTag(name, group))
	}
	return tags
}

func withMarkdownExt(p string) string {
	if strings.HasSuffix(p, mdExt) {
		return p
	}
	return p + mdExt
}
