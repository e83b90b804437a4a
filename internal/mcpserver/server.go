// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes read-only vault tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/notes/internal/apperr"
	"github.com/starford/notes/internal/notes"
	"github.com/starford/notes/internal/style"
)

const noteFormatURI = "notes://note-format"

// OpenFunc opens a fresh view of the vault. It is called once per tool call
// so edits made between calls are always visible.
type OpenFunc func() (*notes.Vault, error)

// Server wraps the MCP server with vault tools.
type Server struct {
	mcp  *server.MCPServer
	open OpenFunc
}

// New creates a new MCP server with all vault tools registered.
func New(open OpenFunc, version string) *Server {
	s := &Server{open: open}

	s.mcp = server.NewMCPServer(
		"notes",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes matching a vault pattern. A pattern names a folder, "+
			"a note, or a glob such as \"blog/*\"; notes under a matching folder come first."),
		mcp.WithString("pattern", mcp.Description("Vault pattern (default \"*\")")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List the registered tags used by notes matching a pattern. "+
			"The pattern \"*\" returns the whole tag registry in registry order."),
		mcp.WithString("pattern", mcp.Description("Vault pattern (default \"*\")")),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a Markdown note."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name relative to the vault, with or without .md")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("note_meta",
		mcp.WithDescription("Return the derived metadata of a note as JSON: state, date, location, tags and table count."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name relative to the vault, with or without .md")),
	), s.noteMeta)

	s.mcp.AddTool(mcp.NewTool("tag_css",
		mcp.WithDescription("Render the tag stylesheet for the tags used by notes matching a pattern."),
		mcp.WithString("pattern", mcp.Description("Vault pattern (default \"*\")")),
	), s.tagCSS)

	s.mcp.AddResource(
		mcp.NewResource(noteFormatURI, "Note Format",
			mcp.WithResourceDescription("Front matter keys, states and tags note layout understood by the vault tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	found, err := v.Notes(req.GetString("pattern", "*"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	names := make([]string, 0, len(found))
	for _, n := range found {
		names = append(names, n.Name())
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tags, err := v.Tags(req.GetString("pattern", "*"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return mcp.NewToolResultText(strings.Join(out, "\n")), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := v.Note(name).Content()
	if err != nil {
		return notFoundOr(name, err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) noteMeta(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	summary, err := notes.Summarize(v.Note(name))
	if err != nil {
		return notFoundOr(name, err), nil
	}
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) tagCSS(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := s.open()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tags, err := v.Tags(req.GetString("pattern", "*"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(style.TagCSS(tags)), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      noteFormatURI,
			MIMEType: "text/markdown",
			Text:     NoteFormatContract,
		},
	}, nil
}

func notFoundOr(name string, err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name))
	}
	return mcp.NewToolResultError(err.Error())
}
