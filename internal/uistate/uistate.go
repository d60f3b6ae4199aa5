// Package uistate persists workspace presentation settings as an explicit,
// versioned document on disk. The browser reads and writes it through the
// API; external edits to the file are picked up by a watcher.
package uistate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Workspace views.
const (
	ViewLibrary  = "library"
	ViewMap      = "map"
	ViewTimeline = "timeline"
	ViewChat     = "chat"
)

// Editor modes.
const (
	EditorModeEdit    = "edit"
	EditorModePreview = "preview"
)

// State is the full workspace presentation state. Every field is explicit so
// the document can be inspected, diffed, and edited by hand.
type State struct {
	Version           int               `json:"version"`
	View              string            `json:"view"`
	SidebarOpen       bool              `json:"sidebarOpen"`
	SidebarTab        string            `json:"sidebarTab"`
	EditorMode        string            `json:"editorMode"`
	DarkMode          bool              `json:"darkMode"`
	TimelineGrouping  string            `json:"timelineGrouping"`
	GroupingMinSize   int               `json:"groupingMinSize"`
	MapColorThreshold int               `json:"mapColorThreshold"`
	ShowChapterHubs   bool              `json:"showChapterHubs"`
	ShowTagLinks      bool              `json:"showTagLinks"`
	TagColors         map[string]string `json:"tagColors"`
}

// Default returns the state a fresh workspace starts with.
func Default() State {
	return State{
		Version:           1,
		View:              ViewLibrary,
		SidebarOpen:       true,
		SidebarTab:        "notes",
		EditorMode:        EditorModeEdit,
		TimelineGrouping:  "week",
		GroupingMinSize:   5,
		MapColorThreshold: 3,
		TagColors:         map[string]string{},
	}
}

// Normalize clamps out-of-range values and fills unset fields so persisted
// documents from older versions or hand edits stay usable.
func (s *State) Normalize() {
	if s.Version < 1 {
		s.Version = 1
	}
	switch s.View {
	case ViewLibrary, ViewMap, ViewTimeline, ViewChat:
	default:
		s.View = ViewLibrary
	}
	if s.SidebarTab == "" {
		s.SidebarTab = "notes"
	}
	switch s.EditorMode {
	case EditorModeEdit, EditorModePreview:
	default:
		s.EditorMode = EditorModeEdit
	}
	switch s.TimelineGrouping {
	case "day", "week", "month":
	default:
		s.TimelineGrouping = "week"
	}
	if s.GroupingMinSize < 1 {
		s.GroupingMinSize = 1
	}
	if s.MapColorThreshold < 2 {
		s.MapColorThreshold = 2
	}
	if s.TagColors == nil {
		s.TagColors = map[string]string{}
	}
}

// Store loads and saves the state document at a fixed path.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store for the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (st *Store) Path() string {
	return st.path
}

// Load reads the state document. A missing file yields the defaults; a
// corrupt file is an error, never silently replaced.
func (st *Store) Load() (State, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := os.ReadFile(st.path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("uistate: read %s: %w", st.path, err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, fmt.Errorf("uistate: parse %s: %w", st.path, err)
	}
	s.Normalize()
	return s, nil
}

// Save normalizes and atomically writes the state: tmp file, fsync, rename.
func (st *Store) Save(s State) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s.Normalize()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("uistate: marshal: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("uistate: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-tmp-*")
	if err != nil {
		return fmt.Errorf("uistate: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("uistate: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("uistate: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("uistate: close temp: %w", err)
	}
	if err := os.Rename(tmpName, st.path); err != nil {
		return fmt.Errorf("uistate: rename: %w", err)
	}
	success = true
	return nil
}
