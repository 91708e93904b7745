package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/quartal/leadsheet/internal/index"
	"github.com/quartal/leadsheet/internal/songservice"
	"github.com/quartal/leadsheet/internal/storage"
)

func songYAML(title, key string) string {
	return "title: " + title + "\nkey: " + key + "\nprogressions:\n" +
		"  - main: \"[C^7:1m][F^7:1m]\"\nform:\n  - progression: main\n" +
		"    lyrics: |\n      uniquetoken here\n"
}

// testEnv sets up a temp songbook, SQLite DB, service, and router.
// authToken="" means disabled mode; non-empty means token mode.
func testEnv(t *testing.T, authToken string) (*songservice.Service, http.Handler) {
	t.Helper()
	svc, router := testEnvFull(t, authToken != "", authToken, nil)
	return svc, router
}

func testEnvFull(t *testing.T, authEnabled bool, authToken string, sseHandler http.Handler) (*songservice.Service, http.Handler) {
	t.Helper()

	bookDir := t.TempDir()
	store, err := storage.NewFS(bookDir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	dbFile, err := os.CreateTemp("", "leadsheet-api-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := songservice.NewService(store, db)
	router := NewRouter(svc, authEnabled, authToken, sseHandler)
	return svc, router
}

func createSong(t *testing.T, router http.Handler, path, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"path": path, "content": content})
	req := httptest.NewRequest(http.MethodPost, "/songs", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateAndGetSong(t *testing.T) {
	_, router := testEnv(t, "")

	w := createSong(t, router, "hello.yaml", songYAML("Hello", "C"))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/songs/hello.yaml", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var song SongDetail
	_ = json.Unmarshal(w.Body.Bytes(), &song)
	if song.Path != "hello.yaml" {
		t.Errorf("path = %q", song.Path)
	}
	if song.Title != "Hello" {
		t.Errorf("title = %q, want Hello", song.Title)
	}
	if song.Key != "C" {
		t.Errorf("key = %q, want C", song.Key)
	}
}

func TestCreateInvalidSong(t *testing.T) {
	_, router := testEnv(t, "")

	// Missing required key field.
	w := createSong(t, router, "bad.yaml", "title: Nope\nprogressions:\n  - main: \"[C:1m]\"\n")
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid song create = %d, want 400", w.Code)
	}
}

func TestCreateDuplicate(t *testing.T) {
	_, router := testEnv(t, "")

	content := songYAML("Dup", "C")
	if w := createSong(t, router, "dup.yaml", content); w.Code != http.StatusCreated {
		t.Fatalf("first create = %d", w.Code)
	}
	if w := createSong(t, router, "dup.yaml", content); w.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", w.Code)
	}
}

func TestUpdateWithOptimisticLocking(t *testing.T) {
	_, router := testEnv(t, "")

	w := createSong(t, router, "lock.yaml", songYAML("Lock", "C"))
	if w.Code != http.StatusCreated {
		t.Fatalf("create = %d", w.Code)
	}
	var created SongDetail
	_ = json.Unmarshal(w.Body.Bytes(), &created)

	// Update with correct checksum.
	updateBody, _ := json.Marshal(map[string]string{"content": songYAML("Lock", "D")})
	req := httptest.NewRequest(http.MethodPut, "/songs/lock.yaml", bytes.NewReader(updateBody))
	req.Header.Set("If-Match", created.Checksum)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update with correct checksum = %d, body = %s", w.Code, w.Body.String())
	}

	// Update with stale checksum should 409.
	req = httptest.NewRequest(http.MethodPut, "/songs/lock.yaml", bytes.NewReader(updateBody))
	req.Header.Set("If-Match", created.Checksum)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("update with stale checksum = %d, want 409", w.Code)
	}
}

func TestUpdateWithoutIfMatch(t *testing.T) {
	_, router := testEnv(t, "")

	createSong(t, router, "nolock.yaml", songYAML("No Lock", "C"))

	updateBody, _ := json.Marshal(map[string]string{"content": songYAML("No Lock", "Eb")})
	req := httptest.NewRequest(http.MethodPut, "/songs/nolock.yaml", bytes.NewReader(updateBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("update without If-Match = %d, want 200", w.Code)
	}
}

func TestDeleteSong(t *testing.T) {
	_, router := testEnv(t, "")

	createSong(t, router, "bye.yaml", songYAML("Bye", "C"))

	req := httptest.NewRequest(http.MethodDelete, "/songs/bye.yaml", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/songs/bye.yaml", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

func TestListSongs(t *testing.T) {
	_, router := testEnv(t, "")

	createSong(t, router, "a.yaml", songYAML("Alpha", "C"))
	createSong(t, router, "b.yaml", songYAML("Beta", "F"))

	req := httptest.NewRequest(http.MethodGet, "/songs?limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	songs := resp["songs"].([]any)
	if len(songs) != 2 {
		t.Errorf("len(songs) = %d, want 2", len(songs))
	}
}

func TestListSongsByKey(t *testing.T) {
	_, router := testEnv(t, "")

	createSong(t, router, "a.yaml", songYAML("Alpha", "C"))
	createSong(t, router, "b.yaml", songYAML("Beta", "F"))

	req := httptest.NewRequest(http.MethodGet, "/songs?key=F", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	songs := resp["songs"].([]any)
	if len(songs) != 1 {
		t.Fatalf("len(songs) = %d, want 1", len(songs))
	}
}

func TestRenderEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	createSong(t, router, "tune.yaml", songYAML("Tune", "C"))

	req := httptest.NewRequest(http.MethodGet, "/render/tune.yaml?transpose_root=Eb&condense_measures=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("render = %d, body = %s", w.Code, w.Body.String())
	}
	var view map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &view)
	if view["Condensed"] != true {
		t.Errorf("Condensed = %v, want true", view["Condensed"])
	}
}

func TestRenderEndpoint_BadView(t *testing.T) {
	_, router := testEnv(t, "")

	createSong(t, router, "tune.yaml", songYAML("Tune", "C"))

	req := httptest.NewRequest(http.MethodGet, "/render/tune.yaml?view=karaoke", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad view = %d, want 400", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	createSong(t, router, "find.yaml", songYAML("Find Me", "C"))

	req := httptest.NewRequest(http.MethodGet, "/search?q=uniquetoken", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("search = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	results := resp["results"].([]any)
	if len(results) != 1 {
		t.Errorf("search results = %d, want 1", len(results))
	}
}

func TestKeysEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	createSong(t, router, "a.yaml", songYAML("Alpha", "C"))
	createSong(t, router, "b.yaml", songYAML("Beta", "C"))
	createSong(t, router, "c.yaml", songYAML("Gamma", "F"))

	req := httptest.NewRequest(http.MethodGet, "/keys", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("keys = %d", w.Code)
	}
	var resp struct {
		Keys []index.KeyCount `json:"keys"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Keys) != 2 {
		t.Fatalf("keys = %d, want 2", len(resp.Keys))
	}
	for _, kc := range resp.Keys {
		if kc.Key == "C" && kc.Count != 2 {
			t.Errorf("C count = %d, want 2", kc.Count)
		}
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	body, _ := json.Marshal(map[string]string{"path": "auth.yaml", "content": songYAML("Auth", "C")})
	req := httptest.NewRequest(http.MethodPost, "/songs", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Errorf("authed create = %d, want 201", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/songs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	_, router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/songs", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/songs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

func TestGetSong_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/songs/nope.yaml", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing song = %d, want 404", w.Code)
	}
}

func TestUpdateSong_NotFound(t *testing.T) {
	_, router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"content": songYAML("Ghost", "C")})
	req := httptest.NewRequest(http.MethodPut, "/songs/ghost.yaml", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("update missing = %d, want 404", w.Code)
	}
}

func TestSearchMissingQuery(t *testing.T) {
	_, router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("search no query = %d, want 400", w.Code)
	}
}

// SSE endpoint auth tests.

// sseStub writes headers and blocks until the request context is done.
var sseStub = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.WriteHeader(http.StatusOK)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	<-r.Context().Done()
})

func TestSSEEvents_AuthProtected(t *testing.T) {
	_, router := testEnvFull(t, true, "secret", sseStub)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_AuthDisabled(t *testing.T) {
	_, router := testEnvFull(t, false, "", sseStub)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE should not require auth when disabled")
	}
}

func TestSSEEvents_ValidToken(t *testing.T) {
	_, router := testEnvFull(t, true, "tok", sseStub)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with valid token should not 401")
	}
}
