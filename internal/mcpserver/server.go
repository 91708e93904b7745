// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes songbook tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quartal/leadsheet/internal/render"
	"github.com/quartal/leadsheet/internal/songfile"
	"github.com/quartal/leadsheet/internal/songservice"
	"github.com/quartal/leadsheet/internal/storage"
)

// Server wraps the MCP server with songbook tools.
type Server struct {
	mcp *server.MCPServer
	svc *songservice.Service
}

// New creates a new MCP server with all songbook tools registered.
func New(svc *songservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Leadsheet",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_songs",
		mcp.WithDescription("Full-text search through song titles and lyrics."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchSongs)

	s.mcp.AddTool(mcp.NewTool("read_song",
		mcp.WithDescription("Read the raw YAML source of a song file."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the song (e.g. jazz/tune.yaml)")),
	), s.readSong)

	s.mcp.AddTool(mcp.NewTool("list_songs",
		mcp.WithDescription("List all songs or songs in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listSongs)

	s.mcp.AddTool(mcp.NewTool("render_song",
		mcp.WithDescription("Render a song as a plain-text lead sheet with measures, "+
			"bar lines, and lyrics laid out."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the song")),
		mcp.WithString("view", mcp.Description("View type: complete (default), leadsheet, or lyrics")),
	), s.renderSong)

	s.mcp.AddTool(mcp.NewTool("transpose_song",
		mcp.WithDescription("Render a song transposed to a new root. "+
			"Accepts any of the twelve chromatic roots in flat spelling (e.g. Eb, F#->Gb)."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the song")),
		mcp.WithString("root", mcp.Required(), mcp.Description("Target root note, e.g. Bb")),
	), s.transposeSong)

	s.mcp.AddTool(mcp.NewTool("get_song_contract",
		mcp.WithDescription("Returns the canonical song file format contract. "+
			"Call this before creating or editing song files to ensure correct structure."),
	), s.getSongContract)

	s.mcp.AddTool(mcp.NewTool("create_song",
		mcp.WithDescription("Create a new song file at the specified path. "+
			"Content MUST follow the canonical song format (YAML with title, key, "+
			"progressions in bracket notation, form sections). Read the contract first "+
			"via the get_song_contract tool or the leadsheet://song-format resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path for the new song (must end with .yaml or .yml)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("YAML content following the song format contract")),
	), s.createSong)

	// Resource: song format contract.
	s.mcp.AddResource(
		mcp.NewResource("leadsheet://song-format", "Song Format Contract",
			mcp.WithResourceDescription("Canonical YAML song format that all song files must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSongFormatResource,
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

func (s *Server) searchSongs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readSong(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	song, err := s.svc.GetSong(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(song.Content), nil
}

func (s *Server) listSongs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = f
	}

	metas, err := s.svc.ListPaths(ctx, folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strings.Join(metas, "\n")), nil
}

func (s *Server) renderSong(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := render.Options{}
	if v, vErr := req.RequireString("view"); vErr == nil {
		opts.View = v
	}
	view, err := s.svc.RenderSong(ctx, path, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(render.Text(view)), nil
}

func (s *Server) transposeSong(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	root, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	view, err := s.svc.RenderSong(ctx, path, render.Options{TransposeRoot: root})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(render.Text(view)), nil
}

func (s *Server) createSong(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !storage.IsSongFile(path) {
		return mcp.NewToolResultError(fmt.Sprintf("not a song file path: %s", path)), nil
	}
	if _, parseErr := songfile.Parse([]byte(content)); parseErr != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid song file: %v", parseErr)), nil
	}
	if _, createErr := s.svc.CreateSong(ctx, path, []byte(content)); createErr != nil {
		return mcp.NewToolResultError(createErr.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", path)), nil
}

func (s *Server) getSongContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SongFormatContract), nil
}

func (s *Server) readSongFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "leadsheet://song-format",
			MIMEType: "text/markdown",
			Text:     SongFormatContract,
		},
	}, nil
}
