package uistate

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "state.json"))
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	st := testStore(t)
	s, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.View != ViewLibrary || s.GroupingMinSize != 5 || !s.SidebarOpen {
		t.Errorf("defaults = %+v", s)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	st := testStore(t)
	s := Default()
	s.View = ViewMap
	s.DarkMode = true
	s.TagColors["magic"] = "#123456"

	if err := st.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.View != ViewMap || !got.DarkMode || got.TagColors["magic"] != "#123456" {
		t.Errorf("got = %+v", got)
	}
}

func TestNormalize_Clamps(t *testing.T) {
	s := State{View: "bogus", GroupingMinSize: 0, MapColorThreshold: -4, TimelineGrouping: "decade"}
	s.Normalize()
	if s.View != ViewLibrary {
		t.Errorf("view = %q", s.View)
	}
	if s.GroupingMinSize != 1 {
		t.Errorf("groupingMinSize = %d", s.GroupingMinSize)
	}
	if s.MapColorThreshold != 2 {
		t.Errorf("mapColorThreshold = %d", s.MapColorThreshold)
	}
	if s.TimelineGrouping != "week" {
		t.Errorf("timelineGrouping = %q", s.TimelineGrouping)
	}
	if s.TagColors == nil {
		t.Error("tagColors not initialized")
	}
	if s.EditorMode != EditorModeEdit {
		t.Errorf("editorMode = %q", s.EditorMode)
	}
}

func TestLoad_CorruptFileIsAnError(t *testing.T) {
	st := testStore(t)
	if err := os.WriteFile(st.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(); err == nil {
		t.Fatal("expected error for corrupt state file")
	}
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	st := testStore(t)
	if err := st.Save(Default()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(st.Path()))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".state-tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWatch_FiresOnExternalWrite(t *testing.T) {
	st := testStore(t)
	if err := st.Save(Default()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	done := make(chan struct{})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	go func() {
		defer close(done)
		_ = Watch(ctx, st, logger, func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register before touching the file.
	time.Sleep(100 * time.Millisecond)
	s := Default()
	s.DarkMode = true
	if err := st.Save(s); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire on external write")
	}

	cancel()
	<-done
}
