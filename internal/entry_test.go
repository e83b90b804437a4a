package internal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/notes/internal/apperr"
	"github.com/starford/notes/internal/testutil"
)

func testApp(t *testing.T) (*App, *bytes.Buffer, string) {
	t.Helper()
	dir := testutil.TestVault(t)
	cfg := NewDefaultConfig()
	cfg.Vault = Path(dir)
	cfg.TagsNote = "meta/Tags"

	var out bytes.Buffer
	app, err := New(WithConfig(cfg), WithOutput(&out))
	require.NoError(t, err)
	return app, &out, dir
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New()
	assert.Error(t, err)
}

func TestListNotes(t *testing.T) {
	app, out, _ := testApp(t)

	require.NoError(t, app.ListNotes("*"))
	assert.Equal(t, "meta/Tags\nNote1\nNote2\n", out.String())

	out.Reset()
	require.NoError(t, app.ListNotes("nada"))
	assert.Empty(t, out.String())
}

func TestListTags(t *testing.T) {
	app, out, _ := testApp(t)

	require.NoError(t, app.ListTags("*"))
	assert.Equal(t, "#def\n", out.String())

	out.Reset()
	require.NoError(t, app.ListTags("Note1"))
	assert.Empty(t, out.String())
}

func TestShowNote(t *testing.T) {
	app, out, _ := testApp(t)

	require.NoError(t, app.ShowNote("Note2"))
	text := out.String()
	assert.Contains(t, text, "state:    draft\n")
	assert.Contains(t, text, "date:     2000-01-01\n")
	assert.Contains(t, text, "tags:     #def\n")
	assert.Contains(t, text, "tables:   0\n")
}

func TestShowNote_Missing(t *testing.T) {
	app, _, _ := testApp(t)

	err := app.ShowNote("nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), "nope.md")
}

func TestTagCSS_Stdout(t *testing.T) {
	app, out, _ := testApp(t)

	require.NoError(t, app.TagCSS("*", ""))
	assert.Contains(t, out.String(), `.tag[href$="/tags/def/"], .tag[href="#def"] { --tag-group: var(--tag-group-abc); }`)
}

func TestTagCSS_OutputFile(t *testing.T) {
	app, out, _ := testApp(t)
	target := filepath.Join(t.TempDir(), "site", "tag.css")

	require.NoError(t, app.TagCSS("Note2", target))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `.tag[href="#def"]`)
}

func TestObsidianCSS(t *testing.T) {
	app, _, dir := testApp(t)

	require.NoError(t, app.ObsidianCSS())

	data, err := os.ReadFile(filepath.Join(dir, ".obsidian", "snippets", "tag.css"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "--tag-group-abc")
}

func TestBlogCSS(t *testing.T) {
	app, _, dir := testApp(t)
	testutil.WriteFiles(t, dir, map[string]string{
		"blog/post.md": "---\ntags: [def]\n---\n",
	})

	assert.Error(t, app.BlogCSS(), "blog must be configured")

	blog := t.TempDir()
	app.Config().Blog = Path(blog)
	require.NoError(t, app.BlogCSS())

	data, err := os.ReadFile(filepath.Join(blog, "assets", "css", "tag.css"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `.tag[href="#def"]`)
}

func TestWatchTagCSS(t *testing.T) {
	app, _, dir := testApp(t)
	target := filepath.Join(t.TempDir(), "tag.css")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.WatchTagCSS(ctx, "*", target) }()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(target)
		return err == nil && strings.Contains(string(data), `href="#def"`)
	}, 5*time.Second, 50*time.Millisecond, "initial stylesheet not written")

	time.Sleep(100 * time.Millisecond)
	testutil.WriteFiles(t, dir, map[string]string{
		"meta/Tags.md": testutil.TagsNote + "\n| #ghi   | test  |\n",
	})

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(target)
		return err == nil && strings.Contains(string(data), `href="#ghi"`)
	}, 5*time.Second, 50*time.Millisecond, "stylesheet not regenerated")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchTagCSS_RequiresOutput(t *testing.T) {
	app, _, _ := testApp(t)
	assert.Error(t, app.WatchTagCSS(context.Background(), "*", ""))
}
