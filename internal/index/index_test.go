package index

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "leadsheet-index-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func row(path, title, sortTitle, key string) SongRow {
	return SongRow{
		Path:      path,
		Title:     title,
		SortTitle: sortTitle,
		Key:       key,
		Time:      "4/4",
		Feel:      "swing",
		Checksum:  "cs-" + path,
		UpdatedAt: time.Now(),
	}
}

func TestUpsertAndChecksum(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertSong(row("a.yaml", "Alpha", "Alpha", "C"), "la la"); err != nil {
		t.Fatal(err)
	}

	cs, err := db.GetChecksum("a.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cs != "cs-a.yaml" {
		t.Errorf("checksum = %q", cs)
	}

	// Upsert with the same path replaces, not duplicates.
	r := row("a.yaml", "Alpha II", "Alpha II", "F")
	r.Checksum = "cs-2"
	if err := db.UpsertSong(r, "la la"); err != nil {
		t.Fatal(err)
	}
	songs, total, err := db.ListSongs(0, 0, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(songs) != 1 {
		t.Fatalf("total = %d, len = %d", total, len(songs))
	}
	if songs[0].Title != "Alpha II" || songs[0].Checksum != "cs-2" {
		t.Errorf("row = %+v", songs[0])
	}
}

func TestGetChecksumMissing(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nope.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if cs != "" {
		t.Errorf("checksum = %q, want empty", cs)
	}
}

func TestDeleteSong(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertSong(row("a.yaml", "Alpha", "Alpha", "C"), ""); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteSong("a.yaml"); err != nil {
		t.Fatal(err)
	}
	if cs, _ := db.GetChecksum("a.yaml"); cs != "" {
		t.Errorf("checksum after delete = %q", cs)
	}
	// Deleting a missing song is not an error.
	if err := db.DeleteSong("a.yaml"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestAllChecksums(t *testing.T) {
	db := testDB(t)
	for _, p := range []string{"a.yaml", "b.yaml"} {
		if err := db.UpsertSong(row(p, p, p, "C"), ""); err != nil {
			t.Fatal(err)
		}
	}
	all, err := db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all["a.yaml"] != "cs-a.yaml" || all["b.yaml"] != "cs-b.yaml" {
		t.Errorf("checksums = %v", all)
	}
}

func TestListSongsSortAndFilter(t *testing.T) {
	db := testDB(t)
	seed := []SongRow{
		row("goodbye.yaml", "The Long Goodbye", "Long Goodbye", "Eb-"),
		row("blues.yaml", "Blues", "Blues", "F"),
		row("air.yaml", "Air", "Air", "F"),
	}
	for _, r := range seed {
		if err := db.UpsertSong(r, ""); err != nil {
			t.Fatal(err)
		}
	}

	songs, total, err := db.ListSongs(0, 0, "", "title")
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Fatalf("total = %d", total)
	}
	wantOrder := []string{"Air", "Blues", "The Long Goodbye"}
	for i, w := range wantOrder {
		if songs[i].Title != w {
			t.Errorf("songs[%d] = %q, want %q", i, songs[i].Title, w)
		}
	}

	songs, total, err = db.ListSongs(0, 0, "F", "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(songs) != 2 {
		t.Fatalf("key filter: total = %d, len = %d", total, len(songs))
	}
	for _, s := range songs {
		if s.Key != "F" {
			t.Errorf("song %q has key %q", s.Title, s.Key)
		}
	}

	if _, _, err := db.ListSongs(0, 0, "", "bogus"); err == nil {
		t.Error("expected error for invalid sort field")
	}
}

func TestListSongsPagination(t *testing.T) {
	db := testDB(t)
	for _, p := range []string{"a.yaml", "b.yaml", "c.yaml"} {
		if err := db.UpsertSong(row(p, p, p, "C"), ""); err != nil {
			t.Fatal(err)
		}
	}

	page, total, err := db.ListSongs(2, 0, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(page) != 2 {
		t.Fatalf("page 1: total = %d, len = %d", total, len(page))
	}
	page, total, err = db.ListSongs(2, 2, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(page) != 1 {
		t.Fatalf("page 2: total = %d, len = %d", total, len(page))
	}
}

func TestKeyCounts(t *testing.T) {
	db := testDB(t)
	seed := []SongRow{
		row("a.yaml", "A", "A", "C"),
		row("b.yaml", "B", "B", "C"),
		row("c.yaml", "C", "C", "F"),
	}
	for _, r := range seed {
		if err := db.UpsertSong(r, ""); err != nil {
			t.Fatal(err)
		}
	}
	empty := row("d.yaml", "D", "D", "")
	if err := db.UpsertSong(empty, ""); err != nil {
		t.Fatal(err)
	}

	counts, err := db.KeyCounts()
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 2 {
		t.Fatalf("counts = %+v", counts)
	}
	if counts[0].Key != "C" || counts[0].Count != 2 {
		t.Errorf("counts[0] = %+v", counts[0])
	}
	if counts[1].Key != "F" || counts[1].Count != 1 {
		t.Errorf("counts[1] = %+v", counts[1])
	}
}

func TestSearch(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertSong(row("goodbye.yaml", "The Long Goodbye", "Long Goodbye", "Eb-"), "some words that begin"); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertSong(row("blues.yaml", "Blues", "Blues", "F"), "entirely different"); err != nil {
		t.Fatal(err)
	}

	hits, err := db.Search("goodbye", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Path != "goodbye.yaml" {
		t.Fatalf("title search hits = %+v", hits)
	}

	hits, err = db.Search("begin", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Title != "The Long Goodbye" {
		t.Fatalf("lyric search hits = %+v", hits)
	}
	if hits[0].Snippet == "" {
		t.Error("snippet should not be empty")
	}

	hits, err = db.Search("nothing here", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %+v, want none", hits)
	}
}

func TestSearchLimit(t *testing.T) {
	db := testDB(t)
	for _, p := range []string{"a.yaml", "b.yaml", "c.yaml"} {
		if err := db.UpsertSong(row(p, p, p, "C"), "shared lyric line"); err != nil {
			t.Fatal(err)
		}
	}
	hits, err := db.Search("shared", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Errorf("hits = %d, want 2", len(hits))
	}
}
