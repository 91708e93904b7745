package mcpserver

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/quartal/leadsheet/internal/index"
	"github.com/quartal/leadsheet/internal/songservice"
	"github.com/quartal/leadsheet/internal/storage"
)

const testSongYAML = `title: Test Tune
key: C
progressions:
  - main: "[C^7:1m][F^7:1m]"
form:
  - progression: main
    lyrics: |
      la la la
`

func testServer(t *testing.T) (*Server, storage.Provider) {
	t.Helper()

	bookDir := t.TempDir()
	store, err := storage.NewFS(bookDir)
	if err != nil {
		t.Fatal(err)
	}

	dbFile, err := os.CreateTemp("", "leadsheet-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	srv := New(songservice.NewService(store, db))
	return srv, store
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the tool handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_songs":
		result, err = srv.searchSongs(ctx, req)
	case "read_song":
		result, err = srv.readSong(ctx, req)
	case "create_song":
		result, err = srv.createSong(ctx, req)
	case "list_songs":
		result, err = srv.listSongs(ctx, req)
	case "render_song":
		result, err = srv.renderSong(ctx, req)
	case "transpose_song":
		result, err = srv.transposeSong(ctx, req)
	case "get_song_contract":
		result, err = srv.getSongContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadSong(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_song", map[string]interface{}{
		"path":    "test.yaml",
		"content": testSongYAML,
	})
	text := resultText(r)
	if text != "created: test.yaml" {
		t.Errorf("create result = %q", text)
	}

	r = callTool(t, srv, "read_song", map[string]interface{}{
		"path": "test.yaml",
	})
	text = resultText(r)
	if text != testSongYAML {
		t.Errorf("read result = %q", text)
	}
}

func TestCreateSongRejectsInvalidContent(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_song", map[string]interface{}{
		"path":    "bad.yaml",
		"content": "title: No Key\nprogressions:\n  - main: \"[C:1m]\"\n",
	})
	if !r.IsError {
		t.Error("expected error for song without a key")
	}
}

func TestListSongs(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("a.yaml", []byte(testSongYAML))
	_ = store.Write("b.yaml", []byte(testSongYAML))

	r := callTool(t, srv, "list_songs", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "a.yaml") || !strings.Contains(text, "b.yaml") {
		t.Errorf("list = %q, want both songs", text)
	}
}

func TestReadSongMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_song", map[string]interface{}{"path": "nope.yaml"})
	if !r.IsError {
		t.Error("expected error for missing song")
	}
}

func TestRenderSong(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("tune.yaml", []byte(testSongYAML))

	r := callTool(t, srv, "render_song", map[string]interface{}{"path": "tune.yaml"})
	text := resultText(r)
	if !strings.Contains(text, "Test Tune") {
		t.Errorf("render missing title: %q", text)
	}
	if !strings.Contains(text, "C^7") {
		t.Errorf("render missing chord: %q", text)
	}
	if !strings.Contains(text, "la la la") {
		t.Errorf("render missing lyrics: %q", text)
	}
}

func TestTransposeSong(t *testing.T) {
	srv, store := testServer(t)
	_ = store.Write("tune.yaml", []byte(testSongYAML))

	r := callTool(t, srv, "transpose_song", map[string]interface{}{
		"path": "tune.yaml",
		"root": "Eb",
	})
	text := resultText(r)
	if !strings.Contains(text, "E♭^7") {
		t.Errorf("transpose missing moved chord: %q", text)
	}
	if !strings.Contains(text, "A♭^7") {
		t.Errorf("transpose missing moved subdominant: %q", text)
	}
}

func TestGetSongContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_song_contract", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "progressions") {
		t.Errorf("contract missing progression docs: %q", text)
	}
}
