package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/notes/internal"
	pkgconfig "github.com/starford/notes/pkg/config"
)

// setup loads the config file, applies and persists flag overrides,
// validates the result and builds the application.
func setup(cmd *cli.Command) (*internal.App, error) {
	root := cmd.Root()
	configPath := root.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	changed := false
	if root.IsSet("vault") {
		cfg.Vault = internal.Path(root.String("vault"))
		changed = true
	}
	if root.IsSet("tags-note") {
		cfg.TagsNote = internal.Path(root.String("tags-note"))
		changed = true
	}
	if cmd.IsSet("blog") {
		cfg.Blog = internal.Path(cmd.String("blog"))
		changed = true
	}

	if err := pkgconfig.Validate(cfg); err != nil {
		return nil, err
	}
	if changed {
		if err := pkgconfig.Save(configPath, cfg); err != nil {
			return nil, err
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(root.String("log-level"))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", root.String("log-level"), err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("config", configPath),
		slog.String("vault", string(cfg.Vault)),
		slog.String("tags_note", string(cfg.TagsNote)))

	return internal.New(
		internal.WithConfig(cfg),
		internal.WithLogger(logger),
	)
}

// action adapts an App method to a cli action.
func action(fn func(ctx context.Context, cmd *cli.Command, app *internal.App) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		app, err := setup(cmd)
		if err != nil {
			return err
		}
		return fn(ctx, cmd, app)
	}
}

func pattern(cmd *cli.Command) string {
	if p := cmd.Args().First(); p != "" {
		return p
	}
	return "*"
}

func main() {
	cmd := &cli.Command{
		Name:    "notes",
		Usage:   "Inspect a vault of Markdown notes and generate tag stylesheets",
		Version: internal.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "$XDG_CONFIG_HOME/notes/config.json",
				Value:       internal.ConfigPath(),
				Sources:     cli.EnvVars("NOTES_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:  "vault",
				Usage: "Vault directory (saved to the config file)",
			},
			&cli.StringFlag{
				Name:  "tags-note",
				Usage: "Note holding the group and tag tables, relative to the vault (saved to the config file)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn or error",
				Value:   "warn",
				Sources: cli.EnvVars("NOTES_LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return errors.New("no command given, see --help")
		},
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List notes matching a pattern",
				ArgsUsage: "[PATTERN]",
				Action: action(func(_ context.Context, cmd *cli.Command, app *internal.App) error {
					return app.ListNotes(pattern(cmd))
				}),
			},
			{
				Name:  "tag",
				Usage: "Inspect tags",
				Commands: []*cli.Command{
					{
						Name:      "list",
						Usage:     "List tags used by notes matching a pattern",
						ArgsUsage: "[PATTERN]",
						Action: action(func(_ context.Context, cmd *cli.Command, app *internal.App) error {
							return app.ListTags(pattern(cmd))
						}),
					},
					{
						Name:      "css",
						Usage:     "Render the tag stylesheet for notes matching a pattern",
						ArgsUsage: "[PATTERN]",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "output",
								Aliases: []string{"o"},
								Usage:   "Write the stylesheet to this file instead of stdout",
							},
							&cli.BoolFlag{
								Name:    "watch",
								Aliases: []string{"w"},
								Usage:   "Keep running and rewrite the output when notes change",
							},
						},
						Action: action(func(ctx context.Context, cmd *cli.Command, app *internal.App) error {
							if cmd.Bool("watch") {
								return app.WatchTagCSS(ctx, pattern(cmd), cmd.String("output"))
							}
							return app.TagCSS(pattern(cmd), cmd.String("output"))
						}),
					},
				},
			},
			{
				Name:  "blog",
				Usage: "Publish to the blog repository",
				Commands: []*cli.Command{
					{
						Name:  "css",
						Usage: "Write the tag stylesheet for notes under " + internal.BlogPattern + "/ into the blog",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "blog",
								Usage: "Blog repository directory (saved to the config file)",
							},
						},
						Action: action(func(_ context.Context, _ *cli.Command, app *internal.App) error {
							return app.BlogCSS()
						}),
					},
				},
			},
			{
				Name:  "obsidian",
				Usage: "Publish to the Obsidian configuration of the vault",
				Commands: []*cli.Command{
					{
						Name:  "css",
						Usage: "Write the tag stylesheet for all registered tags as an Obsidian snippet",
						Action: action(func(_ context.Context, _ *cli.Command, app *internal.App) error {
							return app.ObsidianCSS()
						}),
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Show the metadata of a note",
				ArgsUsage: "NOTE",
				Action: action(func(_ context.Context, cmd *cli.Command, app *internal.App) error {
					name := strings.TrimSpace(cmd.Args().First())
					if name == "" {
						return errors.New("show: a note name is required")
					}
					return app.ShowNote(name)
				}),
			},
			{
				Name:  "mcp",
				Usage: "Serve the vault tools over MCP on stdin/stdout",
				Action: action(func(_ context.Context, _ *cli.Command, app *internal.App) error {
					return app.ServeMCP()
				}),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
