package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestIsSongFile(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"tune.yaml", true},
		{"tune.yml", true},
		{"TUNE.YAML", true},
		{"tune.txt", false},
		{"tune.yaml.bak", false},
		{"yaml", false},
	}
	for _, c := range cases {
		if got := IsSongFile(c.name); got != c.want {
			t.Errorf("IsSongFile(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestNewFS_MissingDir(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing root directory")
	}
}

func TestWriteReadDelete(t *testing.T) {
	fs := newTestFS(t)

	content := []byte("title: X\nkey: C\n")
	if err := fs.Write("sub/tune.yaml", content); err != nil {
		t.Fatal(err)
	}

	got, err := fs.Read("sub/tune.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("read back %q, want %q", got, content)
	}

	if err := fs.Delete("sub/tune.yaml"); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Read("sub/tune.yaml"); err == nil {
		t.Fatal("expected error reading deleted file")
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Write("tune.yaml", []byte("x")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".leadsheet-tmp-") {
			t.Errorf("leftover temp file %q", e.Name())
		}
	}
}

func TestPathTraversalRejected(t *testing.T) {
	fs := newTestFS(t)
	for _, p := range []string{"../escape.yaml", "sub/../../escape.yaml", "/etc/passwd"} {
		if _, err := fs.Read(p); err == nil {
			t.Errorf("Read(%q) should fail", p)
		}
		if err := fs.Write(p, []byte("x")); err == nil {
			t.Errorf("Write(%q) should fail", p)
		}
		if err := fs.Delete(p); err == nil {
			t.Errorf("Delete(%q) should fail", p)
		}
	}
}

func TestList(t *testing.T) {
	fs := newTestFS(t)
	files := map[string]string{
		"a.yaml":        "title: A\n",
		"sub/b.yml":     "title: B\n",
		"notes.txt":     "ignored",
		"sub/c.jpeg":    "ignored",
		"deep/x/d.yaml": "title: D\n",
	}
	for p, body := range files {
		if err := fs.Write(p, []byte(body)); err != nil {
			t.Fatal(err)
		}
	}

	metas, err := fs.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 3 {
		t.Fatalf("listed %d files, want 3", len(metas))
	}
	for _, m := range metas {
		if m.Checksum == "" {
			t.Errorf("%s has empty checksum", m.Path)
		}
		if m.UpdatedAt.IsZero() {
			t.Errorf("%s has zero mtime", m.Path)
		}
		if filepath.IsAbs(m.Path) {
			t.Errorf("%s should be relative", m.Path)
		}
	}
}

func TestListSubdir(t *testing.T) {
	fs := newTestFS(t)
	if err := fs.Write("a.yaml", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := fs.Write("sub/b.yaml", []byte("x")); err != nil {
		t.Fatal(err)
	}

	metas, err := fs.List("sub")
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 1 || metas[0].Path != filepath.Join("sub", "b.yaml") {
		t.Fatalf("metas = %+v", metas)
	}
}

func TestChecksumChangesWithContent(t *testing.T) {
	fs := newTestFS(t)
	if err := fs.Write("a.yaml", []byte("one")); err != nil {
		t.Fatal(err)
	}
	first, _ := fs.List("")
	if err := fs.Write("a.yaml", []byte("two")); err != nil {
		t.Fatal(err)
	}
	second, _ := fs.List("")
	if first[0].Checksum == second[0].Checksum {
		t.Error("checksum should change when content changes")
	}
}
