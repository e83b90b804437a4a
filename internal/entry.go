// Package internal provides the application actions behind the command line.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/notes/internal/apperr"
	"github.com/starford/notes/internal/checksum"
	"github.com/starford/notes/internal/mcpserver"
	"github.com/starford/notes/internal/notes"
	"github.com/starford/notes/internal/storage"
	"github.com/starford/notes/internal/style"
	"github.com/starford/notes/internal/watch"
)

// Version is reported by the CLI and the MCP server.
const Version = "0.3.0"

// Pattern and output locations used by the publishing commands.
const (
	BlogPattern = "blog"
	blogCSSPath = "assets/css/tag.css"
	obsidianCSS = ".obsidian/snippets/tag.css"
)

// App runs commands against the configured vault.
type App struct {
	config *Config
	out    io.Writer
	logger *slog.Logger
}

// New creates the application from the given options.
func New(opts ...Option) (*App, error) {
	app := &App{
		out:    os.Stdout,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Vault opens a fresh view of the configured vault.
func (a *App) Vault() (*notes.Vault, error) {
	return notes.Open(string(a.config.Vault),
		notes.WithTagsNote(string(a.config.TagsNote)),
		notes.WithLogger(a.logger))
}

// ListNotes prints the name of every note matching pattern.
func (a *App) ListNotes(pattern string) error {
	v, err := a.Vault()
	if err != nil {
		return err
	}
	found, err := v.Notes(pattern)
	if err != nil {
		return err
	}
	for _, n := range found {
		fmt.Fprintln(a.out, n.Name())
	}
	return nil
}

// ListTags prints the tags used by notes matching pattern.
func (a *App) ListTags(pattern string) error {
	v, err := a.Vault()
	if err != nil {
		return err
	}
	tags, err := v.Tags(pattern)
	if err != nil {
		return err
	}
	for _, t := range tags {
		fmt.Fprintln(a.out, t.String())
	}
	return nil
}

// ShowNote prints the derived metadata of one note.
func (a *App) ShowNote(name string) error {
	v, err := a.Vault()
	if err != nil {
		return err
	}
	n := v.Note(name)
	if !n.Exists() {
		return fmt.Errorf("show %s: %w", n.Path(), apperr.ErrNotFound)
	}
	s, err := notes.Summarize(n)
	if err != nil {
		return fmt.Errorf("show %s: %w", n.Path(), err)
	}

	fmt.Fprintf(a.out, "name:     %s\n", s.Name)
	fmt.Fprintf(a.out, "state:    %s\n", s.State)
	fmt.Fprintf(a.out, "date:     %s\n", s.Date)
	fmt.Fprintf(a.out, "location: %s\n", s.Location)
	fmt.Fprintf(a.out, "tags:     %s\n", strings.Join(s.Tags, " "))
	fmt.Fprintf(a.out, "tables:   %d\n", s.Tables)
	return nil
}

// TagCSS renders the stylesheet for notes matching pattern. It is printed
// when output is empty and written to output otherwise.
func (a *App) TagCSS(pattern, output string) error {
	v, err := a.Vault()
	if err != nil {
		return err
	}
	css, err := renderTagCSS(v, pattern)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = io.WriteString(a.out, css)
		return err
	}
	return a.writeCSS(v, output, css)
}

// BlogCSS writes the stylesheet for blog notes into the configured blog.
func (a *App) BlogCSS() error {
	if err := a.config.ValidateBlog(); err != nil {
		return err
	}
	return a.TagCSS(BlogPattern, filepath.Join(string(a.config.Blog), filepath.FromSlash(blogCSSPath)))
}

// ObsidianCSS writes the stylesheet for every registered tag as an
// Obsidian snippet inside the vault.
func (a *App) ObsidianCSS() error {
	return a.TagCSS("*", filepath.Join(string(a.config.Vault), filepath.FromSlash(obsidianCSS)))
}

// WatchTagCSS writes the stylesheet to output, then rewrites it whenever a
// note changes and the rendered result differs. It blocks until ctx is
// cancelled or the process receives SIGINT or SIGTERM.
func (a *App) WatchTagCSS(ctx context.Context, pattern, output string) error {
	if output == "" {
		return errors.New("watch: an output file is required")
	}

	var last checksum.Last
	regenerate := func() error {
		v, err := a.Vault()
		if err != nil {
			return err
		}
		css, err := renderTagCSS(v, pattern)
		if err != nil {
			return err
		}
		if !last.Changed([]byte(css)) {
			a.logger.Debug("tag css unchanged", slog.String("output", output))
			return nil
		}
		if err := a.writeCSS(v, output, css); err != nil {
			return err
		}
		last.Record([]byte(css))
		a.logger.Info("tag css written", slog.String("output", output))
		return nil
	}

	if err := regenerate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watch.Watch(gCtx, string(a.config.Vault), watch.DefaultDebounce, a.logger, func(changed []string) {
			a.logger.Debug("notes changed", slog.Int("count", len(changed)))
			if err := regenerate(); err != nil {
				a.logger.Warn("regenerate tag css failed", slog.String("error", err.Error()))
			}
		})
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			a.logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	return g.Wait()
}

// ServeMCP serves the vault tools on stdin/stdout.
func (a *App) ServeMCP() error {
	a.logger.Info("MCP server starting", slog.String("vault", string(a.config.Vault)))
	return mcpserver.New(a.Vault, Version).ServeStdio()
}

func renderTagCSS(v *notes.Vault, pattern string) (string, error) {
	tags, err := v.Tags(pattern)
	if err != nil {
		return "", err
	}
	return style.TagCSS(tags), nil
}

// writeCSS writes through the vault store when output lies inside the vault.
func (a *App) writeCSS(v *notes.Vault, output, css string) error {
	abs, err := filepath.Abs(output)
	if err != nil {
		return err
	}
	if rel, err := filepath.Rel(v.Path(), abs); err == nil && rel != ".." &&
		!strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return v.Store().Write(filepath.ToSlash(rel), []byte(css))
	}
	return storage.WriteFile(abs, []byte(css))
}
