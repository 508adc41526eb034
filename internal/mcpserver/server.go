// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the archive and its notes to LLM clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/archivist/internal/entitystore"
	"github.com/starford/archivist/internal/notestore"
	"github.com/starford/archivist/internal/search"
	"github.com/starford/archivist/internal/view"
)

const formatURI = "archivist://document-format"

// Server wraps the MCP server with archive tools.
type Server struct {
	mcp   *server.MCPServer
	store *entitystore.Store
	notes *notestore.Adapter
	now   func() time.Time
}

// New creates a new MCP server with all tools registered.
func New(store *entitystore.Store, notes *notestore.Adapter) *Server {
	s := &Server{store: store, notes: notes, now: time.Now}

	s.mcp = server.NewMCPServer(
		"archivist",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_entries",
		mcp.WithDescription("Case-insensitive substring search over entity names, summaries and key terms. "+
			"A blank query returns every entity."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
	), s.searchEntries)

	s.mcp.AddTool(mcp.NewTool("read_entry",
		mcp.WithDescription("Read one entity with its detail, sources and connections."),
		mcp.WithString("id", mcp.Description("Entity id")),
		mcp.WithString("name", mcp.Description("Exact entity name, used when id is empty")),
	), s.readEntry)

	s.mcp.AddTool(mcp.NewTool("daily_pick",
		mcp.WithDescription("The entity featured on the home page for a UTC day."),
		mcp.WithString("date", mcp.Description("Day as YYYY-MM-DD; defaults to today")),
	), s.dailyPick)

	s.mcp.AddTool(mcp.NewTool("timeline",
		mcp.WithDescription("Every entity in chronological order; undated entries come last."),
	), s.timeline)

	s.mcp.AddTool(mcp.NewTool("mind_map",
		mcp.WithDescription("Nodes and directed edges of the connection graph."),
	), s.mindMap)

	s.mcp.AddTool(mcp.NewTool("read_notes",
		mcp.WithDescription("Read the note stored under a key (section key or notes-<id>)."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Note key, e.g. homeNotes or notes-ann")),
	), s.readNotes)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List every key that has a stored note."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("save_notes",
		mcp.WithDescription("Overwrite the note stored under a key."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Note key, e.g. homeNotes or notes-ann")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Full note text; replaces the previous note")),
	), s.saveNotes)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Archive Document Format",
			mcp.WithResourceDescription("Entity fields, ordering rules and the note key scheme."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFormatResource,
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

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchEntries(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(search.Filter(s.store.All(), query))
}

func (s *Server) readEntry(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	name := req.GetString("name", "")
	switch {
	case id != "":
		if e, ok := s.store.ByID(id); ok {
			return jsonResult(e)
		}
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	case name != "":
		if e, ok := s.store.ByName(name); ok {
			return jsonResult(e)
		}
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
	default:
		return mcp.NewToolResultError("id or name is required"), nil
	}
}

func (s *Server) dailyPick(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	at := s.now()
	if raw := req.GetString("date", ""); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return mcp.NewToolResultError("date must be YYYY-MM-DD"), nil
		}
		at = d
	}
	card, err := view.DailyPick(at, s.store.All())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(card)
}

func (s *Server) timeline(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(view.RenderTimeline(s.store.All()))
}

func (s *Server) mindMap(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(view.RenderMindMap(s.store.All()))
}

func (s *Server) readNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !notestore.ValidKey(key) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid note key: %s", key)), nil
	}
	text, err := s.notes.Load(ctx, key)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) listNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keys, err := s.notes.Keys(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(keys) == 0 {
		return mcp.NewToolResultText("no notes yet"), nil
	}
	return mcp.NewToolResultText(strings.Join(keys, "\n")), nil
}

func (s *Server) saveNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !notestore.ValidKey(key) {
		return mcp.NewToolResultError(fmt.Sprintf("invalid note key: %s", key)), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.notes.Save(ctx, key, text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s", key)), nil
}

func (s *Server) readFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     DocumentFormat,
		},
	}, nil
}
