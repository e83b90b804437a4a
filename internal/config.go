package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/notes/internal/apperr"
)

// ConfigPath returns the default config file location.
// Can be overridden for testing.
var ConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, "notes", "config.json")
}

// Path is a filesystem path that is written as JSON null when unset.
type Path string

// MarshalJSON implements json.Marshaler.
func (p Path) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON implements json.Unmarshaler. A null value clears the path.
func (p *Path) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = Path(s)
	return nil
}

// Config represents the persisted application configuration.
type Config struct {
	// Vault is the directory containing notes.
	Vault Path `json:"vault"`
	// TagsNote is the name of the note holding the tag tables, relative to Vault.
	TagsNote Path `json:"tags_note"`
	// Blog is the repository receiving the generated blog stylesheet.
	Blog Path `json:"blog"`
}

// Validate checks that the vault directory and tags note exist.
func (c *Config) Validate() error {
	return fieldErrors(validation.ValidateStruct(c,
		validation.Field(&c.Vault, validation.Required, validation.By(dirExists)),
		validation.Field(&c.TagsNote, validation.By(c.noteExists)),
	))
}

// ValidateBlog checks that the blog directory is set and exists.
func (c *Config) ValidateBlog() error {
	return fieldErrors(validation.ValidateStruct(c,
		validation.Field(&c.Blog, validation.Required, validation.By(dirExists)),
	))
}

// validationErrors exposes the per-field errors to errors.Is and errors.As.
type validationErrors struct {
	validation.Errors
}

func (e validationErrors) Unwrap() []error {
	out := make([]error, 0, len(e.Errors))
	for _, err := range e.Errors {
		out = append(out, err)
	}
	return out
}

func fieldErrors(err error) error {
	var errs validation.Errors
	if errors.As(err, &errs) {
		return validationErrors{errs}
	}
	return err
}

func dirExists(value interface{}) error {
	p, _ := value.(Path)
	if p == "" {
		return nil
	}
	info, err := os.Stat(string(p))
	if err != nil || !info.IsDir() {
		return fmt.Errorf("directory %q: %w", string(p), apperr.ErrNotFound)
	}
	return nil
}

func (c *Config) noteExists(value interface{}) error {
	p, _ := value.(Path)
	if p == "" || c.Vault == "" {
		return nil
	}
	name := string(p)
	if !strings.HasSuffix(name, ".md") {
		name += ".md"
	}
	file := filepath.Join(string(c.Vault), name)
	info, err := os.Stat(file)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("note %q (%s): %w", string(p), file, apperr.ErrNotFound)
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Vault:    ".",
		TagsNote: Path(filepath.Join("meta", "Tags")),
	}
}
