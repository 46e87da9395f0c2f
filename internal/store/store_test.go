package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mlowery/daybook/internal/models"
)

func TestLoadDayMissingFileReturnsEmptyDay(t *testing.T) {
	dir := t.TempDir()

	day, err := LoadDay("2026-08-26", dir)
	if err != nil {
		t.Fatalf("load day: %v", err)
	}
	if day.Date.String() != "2026-08-26" {
		t.Fatalf("expected date 2026-08-26, got %s", day.Date)
	}
	if len(day.Todos) != 0 {
		t.Fatalf("expected no todos, got %d", len(day.Todos))
	}
	if day.Notes != "" {
		t.Fatalf("expected empty notes, got %q", day.Notes)
	}

	// The miss path must be read-only.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no files created on load, found %d", len(entries))
	}
}

func TestLoadDayRejectsMalformedDates(t *testing.T) {
	dir := t.TempDir()

	for _, bad := range []string{"", "2024-1-5", "2024/01/05", "2024-01-05x", "not-a-date", "20240105"} {
		_, err := LoadDay(bad, dir)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("date %q: expected ErrInvalidInput, got %v", bad, err)
		}
	}
}

func TestSaveDayLoadDayRoundTrip(t *testing.T) {
	dir := t.TempDir()

	date, err := models.ParseDate("2026-08-26")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}

	created := time.Date(2026, 8, 26, 9, 30, 0, 0, time.Local)
	day := models.DayData{
		Date: date,
		Todos: []models.TodoItem{
			{ID: "b", Text: "second alphabetically, first in order", CreatedAt: created},
			{ID: "a", Text: "done already", Completed: true, CreatedAt: created, Notes: "with notes"},
			{ID: "c", Text: "carry over → tomorrow 🗓️", MoveToNextDay: true, CreatedAt: created},
		},
		Notes: "daily notes\nsecond line",
	}

	if err := SaveDay(day, dir); err != nil {
		t.Fatalf("save day: %v", err)
	}

	loaded, err := LoadDay("2026-08-26", dir)
	if err != nil {
		t.Fatalf("load day: %v", err)
	}
	if loaded.Notes != day.Notes {
		t.Fatalf("notes mismatch: %q", loaded.Notes)
	}
	if len(loaded.Todos) != 3 {
		t.Fatalf("expected 3 todos, got %d", len(loaded.Todos))
	}
	for i := range day.Todos {
		if !loaded.Todos[i].CreatedAt.Equal(day.Todos[i].CreatedAt) {
			t.Fatalf("todo %d created_at mismatch: %v vs %v", i, loaded.Todos[i].CreatedAt, day.Todos[i].CreatedAt)
		}
		loaded.Todos[i].CreatedAt = day.Todos[i].CreatedAt
		if loaded.Todos[i] != day.Todos[i] {
			t.Fatalf("todo %d mismatch: %+v vs %+v", i, loaded.Todos[i], day.Todos[i])
		}
	}
}

func TestSaveDayEmptyRecordStillWritesFile(t *testing.T) {
	dir := t.TempDir()

	date, _ := models.ParseDate("2026-01-01")
	if err := SaveDay(models.NewDayData(date), dir); err != nil {
		t.Fatalf("save empty day: %v", err)
	}
	if _, err := os.Stat(DayPath(dir, date)); err != nil {
		t.Fatalf("expected day file to exist: %v", err)
	}
}

func TestLoadDayCorruptFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "2026-08-26.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	_, err := LoadDay("2026-08-26", dir)
	if !errors.Is(err, ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData, got %v", err)
	}
}

func TestLoadDayRejectsValidJSONWithoutDate(t *testing.T) {
	dir := t.TempDir()

	// null and {} are valid JSON but carry no date, so they are not day
	// records.
	for _, content := range []string{"null", "{}", `{"todos": [], "notes": ""}`} {
		path := filepath.Join(dir, "2026-08-26.json")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write day file: %v", err)
		}
		_, err := LoadDay("2026-08-26", dir)
		if !errors.Is(err, ErrCorruptData) {
			t.Fatalf("content %q: expected ErrCorruptData, got %v", content, err)
		}
	}
}

func TestLoadDayOlderRecordWithoutTodoNotes(t *testing.T) {
	dir := t.TempDir()

	// Records written before todos carried a notes field must still load,
	// with notes defaulting to empty.
	old := `{
  "date": "2025-12-31",
  "todos": [
    {"id": "x", "text": "old item", "completed": true, "created_at": "2025-12-31T08:00:00+01:00", "move_to_next_day": false}
  ],
  "notes": "kept"
}`
	if err := os.WriteFile(filepath.Join(dir, "2025-12-31.json"), []byte(old), 0o644); err != nil {
		t.Fatalf("write old record: %v", err)
	}

	day, err := LoadDay("2025-12-31", dir)
	if err != nil {
		t.Fatalf("load old record: %v", err)
	}
	if day.Todos[0].Notes != "" {
		t.Fatalf("expected empty todo notes, got %q", day.Todos[0].Notes)
	}
	if !day.Todos[0].Completed {
		t.Fatalf("expected completed to survive")
	}
	if day.Notes != "kept" {
		t.Fatalf("expected day notes %q, got %q", "kept", day.Notes)
	}
}

func TestSaveDayRejectsZeroDate(t *testing.T) {
	if err := SaveDay(models.DayData{}, t.TempDir()); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSaveDayLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()

	date, _ := models.ParseDate("2026-08-26")
	day := models.NewDayData(date)
	day.Notes = "something"
	if err := SaveDay(day, dir); err != nil {
		t.Fatalf("save day: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "2026-08-26.json" {
		t.Fatalf("expected only the day file, got %v", entries)
	}
}
