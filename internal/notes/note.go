package notes

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/starford/notes/internal/markdown"
)

// placeholderRe matches template placeholders such as {{date}} that are
// left in draft front matter.
var placeholderRe = regexp.MustCompile(`({{.*?}})`)

// Note is a single Markdown file in a vault. Everything derived from the file
// is computed on first use and cached for the lifetime of the Note.
type Note struct {
	vault *Vault
	path  string

	root   *markdown.Block
	matter *yaml.Node
	meta   map[string]any
	tags   []Tag
	tables []markdown.Table

	tagsLoaded   bool
	tablesLoaded bool
}

// Vault returns the vault this note belongs to.
func (n *Note) Vault() *Vault {
	return n.vault
}

// Path returns the file path relative to the vault root.
func (n *Note) Path() string {
	return n.path
}

// Name returns the vault-relative path without the .md extension.
func (n *Note) Name() string {
	return strings.TrimSuffix(n.path, mdExt)
}

func (n *Note) String() string {
	return n.Name()
}

// Exists reports whether the note's file is present in the vault.
func (n *Note) Exists() bool {
	return n.vault.store.Exists(n.path)
}

// Content returns the raw file bytes.
func (n *Note) Content() ([]byte, error) {
	return n.vault.store.Read(n.path)
}

// Root returns the parsed block tree of the note.
func (n *Note) Root() (*markdown.Block, error) {
	if n.root != nil {
		return n.root, nil
	}
	data, err := n.Content()
	if err != nil {
		return nil, err
	}
	root, err := markdown.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("notes: parse %s: %w", n.path, err)
	}
	n.root = root
	return root, nil
}

// Meta returns the front matter as a generic map. A note without front
// matter has an empty map.
func (n *Note) Meta() (map[string]any, error) {
	if n.meta != nil {
		return n.meta, nil
	}
	root, err := n.Root()
	if err != nil {
		return nil, err
	}

	raw := root.Only(markdown.KindFrontMatter).Inline()
	raw = placeholderRe.ReplaceAllString(raw, `"${1}"`)

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("notes: front matter of %s: %w", n.path, err)
	}

	meta := map[string]any{}
	if len(doc.Content) > 0 && doc.Content[0].Kind == yaml.MappingNode {
		n.matter = doc.Content[0]
		if err := n.matter.Decode(&meta); err != nil {
			return nil, fmt.Errorf("notes: front matter of %s: %w", n.path, err)
		}
	}
	n.meta = meta
	return meta, nil
}

// field returns the value node of a top-level front matter key.
func (n *Note) field(key string) (*yaml.Node, error) {
	if _, err := n.Meta(); err != nil {
		return nil, err
	}
	if n.matter == nil {
		return nil, nil
	}
	for i := 0; i+1 < len(n.matter.Content); i += 2 {
		if n.matter.Content[i].Value == key {
			return n.matter.Content[i+1], nil
		}
	}
	return nil, nil
}

// State returns the publication state; missing or unknown values are stub.
func (n *Note) State() (State, error) {
	meta, err := n.Meta()
	if err != nil {
		return StateStub, err
	}
	s, ok := meta["state"].(string)
	if !ok {
		return StateStub, nil
	}
	return ParseState(s), nil
}

// Date returns the date the note was written. Only an unquoted YAML
// timestamp counts; quoted strings and other values yield nil.
func (n *Note) Date() (*time.Time, error) {
	node, err := n.field("date")
	if err != nil || node == nil {
		return nil, err
	}
	if node.Kind != yaml.ScalarNode || node.ShortTag() != "!!timestamp" {
		return nil, nil
	}
	var t time.Time
	if err := node.Decode(&t); err != nil {
		return nil, nil
	}
	return &t, nil
}

// Location returns where the note was written, or "" when unset.
func (n *Note) Location() (string, error) {
	meta, err := n.Meta()
	if err != nil {
		return "", err
	}
	loc, _ := meta["location"].(string)
	return loc, nil
}

// Tags returns the vault tags named in the note's front matter, in registry
// order. Names may carry a leading '#'; names missing from the registry are
// dropped.
func (n *Note) Tags() ([]Tag, error) {
	if n.tagsLoaded {
		return n.tags, nil
	}
	meta, err := n.Meta()
	if err != nil {
		return nil, err
	}

	var tags []Tag
	if list, ok := meta["tags"].([]any); ok {
		names := make(map[string]struct{}, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				names[strings.TrimLeft(s, "#")] = struct{}{}
			}
		}
		registry, err := n.vault.AllTags()
		if err != nil {
			return nil, err
		}
		for _, tag := range registry {
			if _, ok := names[tag.Name]; ok {
				tags = append(tags, tag)
			}
		}
	}

	n.tags = tags
	n.tagsLoaded = true
	return tags, nil
}

// Tables returns every top-level table in the note.
func (n *Note) Tables() ([]markdown.Table, error) {
	if n.tablesLoaded {
		return n.tables, nil
	}
	root, err := n.Root()
	if err != nil {
		return nil, err
	}
	n.tables = markdown.Tables(root)
	n.tablesLoaded = true
	return n.tables, nil
}
