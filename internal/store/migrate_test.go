package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlowery/daybook/internal/models"
)

func writeLegacyEvents(t *testing.T, dir string, events map[string][]string) string {
	t.Helper()
	b, err := json.Marshal(events)
	if err != nil {
		t.Fatalf("marshal legacy events: %v", err)
	}
	path := filepath.Join(dir, LegacyEventsFile)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write legacy events: %v", err)
	}
	return path
}

func TestMigrateWithoutLegacyFile(t *testing.T) {
	dir := t.TempDir()

	result, err := MigrateLegacyEvents(dir)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if result.Status != MigrationNotNeeded {
		t.Fatalf("expected MigrationNotNeeded, got %v", result.Status)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no filesystem changes, found %d entries", len(entries))
	}
}

func TestMigrateEmptyMapStillRetiresLegacyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeLegacyEvents(t, dir, map[string][]string{})

	result, err := MigrateLegacyEvents(dir)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if result.Status != MigrationEmpty {
		t.Fatalf("expected MigrationEmpty, got %v", result.Status)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected legacy file to be removed, stat: %v", err)
	}
	if _, err := os.Stat(path + ".backup"); err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
}

func TestMigrateMergesBeforeExistingTodos(t *testing.T) {
	dir := t.TempDir()

	date, _ := models.ParseDate("2026-08-26")
	existing := models.NewDayData(date)
	done := models.NewTodoItem("already here")
	done.Completed = true
	existing.Todos = []models.TodoItem{done}
	existing.Notes = "keep these notes"
	if err := SaveDay(existing, dir); err != nil {
		t.Fatalf("save existing day: %v", err)
	}

	writeLegacyEvents(t, dir, map[string][]string{
		"2026-08-26": {"E1", "E2"},
	})

	result, err := MigrateLegacyEvents(dir)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if result.Status != MigrationDone || result.Items != 2 || result.Dates != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	day, err := LoadDay("2026-08-26", dir)
	if err != nil {
		t.Fatalf("load merged day: %v", err)
	}
	if len(day.Todos) != 3 {
		t.Fatalf("expected 3 todos, got %d", len(day.Todos))
	}
	if day.Todos[0].Text != "E1" || day.Todos[1].Text != "E2" {
		t.Fatalf("migrated events must come first in original order: %q, %q", day.Todos[0].Text, day.Todos[1].Text)
	}
	if day.Todos[2].ID != done.ID || !day.Todos[2].Completed {
		t.Fatalf("existing todo must be preserved untouched: %+v", day.Todos[2])
	}
	for _, todo := range day.Todos[:2] {
		if todo.Completed || todo.MoveToNextDay || todo.Notes != "" || todo.ID == "" {
			t.Fatalf("migrated todo has wrong defaults: %+v", todo)
		}
	}
	if day.Notes != "keep these notes" {
		t.Fatalf("day notes must be untouched, got %q", day.Notes)
	}
}

func TestMigrateCountsAcrossDates(t *testing.T) {
	dir := t.TempDir()
	writeLegacyEvents(t, dir, map[string][]string{
		"2026-08-24": {"standup"},
		"2026-08-25": {"dentist", "groceries"},
	})

	result, err := MigrateLegacyEvents(dir)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if result.Items != 3 || result.Dates != 2 {
		t.Fatalf("expected 3 items over 2 dates, got %+v", result)
	}

	for _, key := range []string{"2026-08-24", "2026-08-25"} {
		day, err := LoadDay(key, dir)
		if err != nil {
			t.Fatalf("load %s: %v", key, err)
		}
		if len(day.Todos) == 0 {
			t.Fatalf("expected todos for %s", key)
		}
	}
}

func TestMigrateIsIdempotentByAbsence(t *testing.T) {
	dir := t.TempDir()
	writeLegacyEvents(t, dir, map[string][]string{"2026-08-26": {"once"}})

	if _, err := MigrateLegacyEvents(dir); err != nil {
		t.Fatalf("first migrate: %v", err)
	}

	result, err := MigrateLegacyEvents(dir)
	if err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if result.Status != MigrationNotNeeded {
		t.Fatalf("expected second run to be a no-op, got %+v", result)
	}

	day, err := LoadDay("2026-08-26", dir)
	if err != nil {
		t.Fatalf("load day: %v", err)
	}
	if len(day.Todos) != 1 {
		t.Fatalf("expected exactly 1 todo after rerun, got %d", len(day.Todos))
	}
}

func TestMigrateCorruptLegacyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LegacyEventsFile)
	if err := os.WriteFile(path, []byte("[1,2,3]"), 0o644); err != nil {
		t.Fatalf("write corrupt legacy file: %v", err)
	}

	_, err := MigrateLegacyEvents(dir)
	if !errors.Is(err, ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("legacy file must stay in place on failure: %v", statErr)
	}
}

func TestMigrateNullLegacyFileIsCorrupt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, LegacyEventsFile)
	if err := os.WriteFile(path, []byte("null"), 0o644); err != nil {
		t.Fatalf("write null legacy file: %v", err)
	}

	_, err := MigrateLegacyEvents(dir)
	if !errors.Is(err, ErrCorruptData) {
		t.Fatalf("expected ErrCorruptData for null, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("legacy file must stay in place on failure: %v", statErr)
	}
	if _, statErr := os.Stat(path + ".backup"); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("null legacy file must not be backed up, stat: %v", statErr)
	}
}

func TestMigrateMalformedDateKeyAborts(t *testing.T) {
	dir := t.TempDir()
	path := writeLegacyEvents(t, dir, map[string][]string{"26/08/2026": {"bad key"}})

	_, err := MigrateLegacyEvents(dir)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("legacy file must stay in place on failure: %v", statErr)
	}
}

func TestMigrateOverwritesExistingBackup(t *testing.T) {
	dir := t.TempDir()
	backup := filepath.Join(dir, LegacyEventsFile+".backup")
	if err := os.WriteFile(backup, []byte("old backup"), 0o644); err != nil {
		t.Fatalf("write old backup: %v", err)
	}
	writeLegacyEvents(t, dir, map[string][]string{"2026-08-26": {"fresh"}})

	if _, err := MigrateLegacyEvents(dir); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	b, err := os.ReadFile(backup)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(b) == "old backup" {
		t.Fatalf("expected backup to be overwritten")
	}
}
