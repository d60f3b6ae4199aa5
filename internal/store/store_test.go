package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mhollis/zettel/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ts(min int) time.Time {
	return time.Date(2025, 3, 1, 10, min, 0, 0, time.UTC)
}

func TestSaveAndGetNote(t *testing.T) {
	db := testDB(t)
	color := 4
	n := &models.Note{
		ID:         "20250301100000",
		Title:      "Alpha",
		Content:    "Body with [[Beta]].",
		Tags:       []string{"go", "db"},
		AutoTags:   []string{"sqlite"},
		Summary:    "A note.",
		BookColor:  &color,
		CreatedAt:  ts(0),
		ModifiedAt: ts(0),
	}
	if err := db.SaveNote(n, nil); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}

	got, err := db.GetNote(n.ID)
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if got == nil {
		t.Fatal("note not found")
	}
	if got.Title != "Alpha" || got.Summary != "A note." {
		t.Errorf("got = %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" {
		t.Errorf("tags = %v", got.Tags)
	}
	if len(got.AutoTags) != 1 || got.AutoTags[0] != "sqlite" {
		t.Errorf("autoTags = %v", got.AutoTags)
	}
	if got.BookColor == nil || *got.BookColor != 4 {
		t.Errorf("bookColor = %v", got.BookColor)
	}
	if !got.CreatedAt.Equal(ts(0)) {
		t.Errorf("createdAt = %v", got.CreatedAt)
	}
}

func TestGetNote_Missing(t *testing.T) {
	db := testDB(t)
	got, err := db.GetNote("nope")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil", got)
	}
}

func TestSaveNote_NilBookColor(t *testing.T) {
	db := testDB(t)
	n := &models.Note{ID: "1", Title: "A", CreatedAt: ts(0), ModifiedAt: ts(0)}
	if err := db.SaveNote(n, nil); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
	got, _ := db.GetNote("1")
	if got.BookColor != nil {
		t.Errorf("bookColor = %v, want nil", got.BookColor)
	}
}

func TestSaveNote_RegeneratesLinks(t *testing.T) {
	db := testDB(t)
	n := &models.Note{ID: "src", Title: "Src", CreatedAt: ts(0), ModifiedAt: ts(0)}
	first := []models.NoteLink{
		{SourceID: "src", TargetID: "a", Context: "ctx a"},
		{SourceID: "src", TargetID: "b", Context: "ctx b"},
	}
	if err := db.SaveNote(n, first); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}

	second := []models.NoteLink{{SourceID: "src", TargetID: "c", Context: "ctx c"}}
	n.ModifiedAt = ts(1)
	if err := db.SaveNote(n, second); err != nil {
		t.Fatalf("resave: %v", err)
	}

	links, err := db.ForwardLinks("src")
	if err != nil {
		t.Fatalf("ForwardLinks: %v", err)
	}
	if len(links) != 1 || links[0].TargetID != "c" {
		t.Errorf("links = %+v, want only target c", links)
	}
}

func TestDeleteNote_PurgesBothSides(t *testing.T) {
	db := testDB(t)
	a := &models.Note{ID: "a", Title: "A", CreatedAt: ts(0), ModifiedAt: ts(0)}
	b := &models.Note{ID: "b", Title: "B", CreatedAt: ts(1), ModifiedAt: ts(1)}
	if err := db.SaveNote(a, []models.NoteLink{{SourceID: "a", TargetID: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveNote(b, []models.NoteLink{{SourceID: "b", TargetID: "a"}}); err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteNote("a"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}

	if got, _ := db.GetNote("a"); got != nil {
		t.Error("note a still present")
	}
	all, _ := db.AllLinks()
	if len(all) != 0 {
		t.Errorf("links remain after delete: %+v", all)
	}

	if err := db.DeleteNote("never-existed"); err != nil {
		t.Errorf("delete missing id: %v", err)
	}
}

func TestListNotes_Order(t *testing.T) {
	db := testDB(t)
	old := &models.Note{ID: "old", Title: "Old", CreatedAt: ts(0), ModifiedAt: ts(0)}
	fresh := &models.Note{ID: "fresh", Title: "Fresh", CreatedAt: ts(1), ModifiedAt: ts(5)}
	db.SaveNote(old, nil)
	db.SaveNote(fresh, nil)

	notes, err := db.ListNotes()
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 2 || notes[0].ID != "fresh" {
		t.Errorf("order = %v", []string{notes[0].ID, notes[1].ID})
	}
}

func TestSearchNotes(t *testing.T) {
	db := testDB(t)
	db.SaveNote(&models.Note{ID: "1", Title: "Rome Trip", Content: "The Colosseum.", CreatedAt: ts(0), ModifiedAt: ts(0)}, nil)
	db.SaveNote(&models.Note{ID: "2", Title: "Groceries", Content: "Milk", Tags: []string{"errand"}, CreatedAt: ts(1), ModifiedAt: ts(1)}, nil)

	byTitle, _ := db.SearchNotes("ROME")
	if len(byTitle) != 1 || byTitle[0].ID != "1" {
		t.Errorf("title search = %+v", byTitle)
	}
	byContent, _ := db.SearchNotes("colosseum")
	if len(byContent) != 1 {
		t.Errorf("content search = %+v", byContent)
	}
	byTag, _ := db.SearchNotes("errand")
	if len(byTag) != 1 || byTag[0].ID != "2" {
		t.Errorf("tag search = %+v", byTag)
	}
	none, _ := db.SearchNotes("zzz")
	if len(none) != 0 {
		t.Errorf("no-match search = %+v", none)
	}
}

func TestNotesByTag_ExactMatch(t *testing.T) {
	db := testDB(t)
	db.SaveNote(&models.Note{ID: "1", Title: "A", Tags: []string{"go"}, CreatedAt: ts(0), ModifiedAt: ts(0)}, nil)
	db.SaveNote(&models.Note{ID: "2", Title: "B", Tags: []string{"golang"}, CreatedAt: ts(1), ModifiedAt: ts(1)}, nil)

	got, err := db.NotesByTag("go")
	if err != nil {
		t.Fatalf("NotesByTag: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("NotesByTag(go) = %+v, want only note 1", got)
	}
}

func TestAllTags_SortedSet(t *testing.T) {
	db := testDB(t)
	db.SaveNote(&models.Note{ID: "1", Title: "A", Tags: []string{"zebra", "apple"}, CreatedAt: ts(0), ModifiedAt: ts(0)}, nil)
	db.SaveNote(&models.Note{ID: "2", Title: "B", Tags: []string{"apple"}, CreatedAt: ts(1), ModifiedAt: ts(1)}, nil)

	tags, err := db.AllTags()
	if err != nil {
		t.Fatalf("AllTags: %v", err)
	}
	if len(tags) != 2 || tags[0] != "apple" || tags[1] != "zebra" {
		t.Errorf("tags = %v", tags)
	}
}

func TestTitleMap(t *testing.T) {
	db := testDB(t)
	db.SaveNote(&models.Note{ID: "1", Title: "Rome Trip", CreatedAt: ts(0), ModifiedAt: ts(0)}, nil)

	m, err := db.TitleMap()
	if err != nil {
		t.Fatalf("TitleMap: %v", err)
	}
	if m["rome trip"] != "1" {
		t.Errorf("map = %v", m)
	}
}

func TestBacklinks(t *testing.T) {
	db := testDB(t)
	db.SaveNote(&models.Note{ID: "a", Title: "A", CreatedAt: ts(0), ModifiedAt: ts(0)},
		[]models.NoteLink{{SourceID: "a", TargetID: "b", Context: "near b"}})

	back, err := db.Backlinks("b")
	if err != nil {
		t.Fatalf("Backlinks: %v", err)
	}
	if len(back) != 1 || back[0].SourceID != "a" || back[0].Context != "near b" {
		t.Errorf("backlinks = %+v", back)
	}
}

func TestChats(t *testing.T) {
	db := testDB(t)
	c := &models.SavedChat{
		ID:    "chat-1",
		Title: "Rome research",
		Messages: []models.ChatMessage{
			{ID: "m1", Role: models.RoleUser, Content: "q", Timestamp: ts(0)},
			{ID: "m2", Role: models.RoleAssistant, Content: "a [1]", Timestamp: ts(0),
				CitedNotes: []models.CitedNote{{Index: 1, ID: "n1", Title: "Rome"}}},
		},
		CreatedAt:  ts(0),
		ModifiedAt: ts(0),
	}
	if err := db.SaveChat(c); err != nil {
		t.Fatalf("SaveChat: %v", err)
	}

	got, err := db.GetChat("chat-1")
	if err != nil || got == nil {
		t.Fatalf("GetChat: %v, %v", got, err)
	}
	if len(got.Messages) != 2 || got.Messages[1].CitedNotes[0].ID != "n1" {
		t.Errorf("chat = %+v", got)
	}

	if missing, err := db.GetChat("nope"); err != nil || missing != nil {
		t.Errorf("missing chat = %v, %v", missing, err)
	}

	c2 := &models.SavedChat{ID: "chat-2", Title: "Later", CreatedAt: ts(1), ModifiedAt: ts(5)}
	db.SaveChat(c2)
	chats, err := db.ListChats()
	if err != nil {
		t.Fatalf("ListChats: %v", err)
	}
	if len(chats) != 2 || chats[0].ID != "chat-2" {
		t.Errorf("order = %+v", chats)
	}

	if err := db.DeleteChat("chat-1"); err != nil {
		t.Fatalf("DeleteChat: %v", err)
	}
	if got, _ := db.GetChat("chat-1"); got != nil {
		t.Error("chat still present after delete")
	}
	if err := db.DeleteChat("never-existed"); err != nil {
		t.Errorf("delete missing chat: %v", err)
	}
}
