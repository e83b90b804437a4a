package internal

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/notes/internal/apperr"
	"github.com/starford/notes/internal/testutil"
	pkgconfig "github.com/starford/notes/pkg/config"
)

func TestConfig_DefaultsValidInVault(t *testing.T) {
	dir := testutil.TestVault(t)
	cfg := NewDefaultConfig()
	cfg.Vault = Path(dir)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestConfig_MissingVault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	cfg := &Config{Vault: Path(missing)}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("missing vault should fail validation")
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error should name the path: %v", err)
	}
}

func TestConfig_VaultRequired(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty vault should fail validation")
	}
}

func TestConfig_MissingTagsNote(t *testing.T) {
	dir := testutil.TestVault(t)
	cfg := &Config{Vault: Path(dir), TagsNote: "meta/Missing"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("missing tags note should fail validation")
	}
	if !strings.Contains(err.Error(), filepath.Join(dir, "meta", "Missing.md")) {
		t.Errorf("error should name the note file: %v", err)
	}
}

func TestConfig_NoTagsNote(t *testing.T) {
	cfg := &Config{Vault: Path(t.TempDir())}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("tags note is optional: %v", err)
	}
}

func TestConfig_ValidateBlog(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.ValidateBlog(); err == nil {
		t.Fatal("unset blog should fail")
	}

	cfg.Blog = Path(filepath.Join(t.TempDir(), "gone"))
	if err := cfg.ValidateBlog(); err == nil {
		t.Fatal("missing blog dir should fail")
	}

	cfg.Blog = Path(t.TempDir())
	if err := cfg.ValidateBlog(); err != nil {
		t.Fatalf("existing blog dir should pass: %v", err)
	}
}

func TestConfig_JSONNulls(t *testing.T) {
	data, err := json.Marshal(&Config{Vault: "/srv/notes"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"vault":"/srv/notes","tags_note":null,"blog":null}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}

	cfg := NewDefaultConfig()
	if err := json.Unmarshal([]byte(`{"vault": "/x", "blog": null}`), cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Vault != "/x" || cfg.Blog != "" || cfg.TagsNote != Path(filepath.Join("meta", "Tags")) {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestConfigPath_Override(t *testing.T) {
	orig := ConfigPath
	t.Cleanup(func() { ConfigPath = orig })

	want := filepath.Join(t.TempDir(), "config.json")
	ConfigPath = func() string { return want }
	if got := ConfigPath(); got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
	if _, err := os.Stat(want); !os.IsNotExist(err) {
		t.Errorf("ConfigPath must not create the file")
	}
}

func TestConfig_SaveLoadKeepsUnsetTagsNote(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	saved := NewDefaultConfig()
	saved.Vault = "/srv/notes"
	saved.TagsNote = ""
	if err := pkgconfig.Save(path, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := NewDefaultConfig()
	if err := pkgconfig.Load(path, loaded); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *saved {
		t.Errorf("reloaded %+v, want %+v", loaded, saved)
	}
}

func TestConfig_NotFoundIsWrapped(t *testing.T) {
	cfg := &Config{Vault: Path(filepath.Join(t.TempDir(), "nope"))}
	err := pkgconfig.Validate(cfg)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing vault: want ErrNotFound, got %v", err)
	}

	cfg = &Config{Vault: Path(testutil.TestVault(t)), TagsNote: "meta/Missing"}
	if err := cfg.Validate(); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing tags note: want ErrNotFound, got %v", err)
	}

	cfg = NewDefaultConfig()
	cfg.Blog = Path(filepath.Join(t.TempDir(), "gone"))
	if err := cfg.ValidateBlog(); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing blog: want ErrNotFound, got %v", err)
	}
}

func TestConfig_TagsNoteWithExtension(t *testing.T) {
	cfg := &Config{Vault: Path(testutil.TestVault(t)), TagsNote: "meta/Tags.md"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("tags note with .md should pass: %v", err)
	}
}
