// Package store persists day records as one JSON file per calendar date.
//
// Files are human-readable and live directly in the data directory, named
// after the date key (2026-08-26.json). There is no locking; concurrent
// saves of the same date are last-writer-wins, which is acceptable for a
// single-user local application.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mlowery/daybook/internal/models"
)

// Error kinds. Callers match these with errors.Is; the wrapped message
// carries the specifics.
var (
	// ErrInvalidInput marks malformed caller input such as a bad date string.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCorruptData marks a file that exists but does not parse into the
	// expected shape.
	ErrCorruptData = errors.New("corrupt data")
	// ErrIO marks a filesystem read, write or rename failure.
	ErrIO = errors.New("io error")
)

// DayPath returns the file a date's record is stored at
func DayPath(dataDir string, date models.Date) string {
	return filepath.Join(dataDir, date.String()+".json")
}

// LoadDay reads the record for the given YYYY-MM-DD date key. A missing
// file is the normal "new day" case and yields a fresh empty record
// without touching the disk.
func LoadDay(dateStr, dataDir string) (models.DayData, error) {
	date, err := models.ParseDate(dateStr)
	if err != nil {
		return models.DayData{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	b, err := os.ReadFile(DayPath(dataDir, date))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewDayData(date), nil
		}
		return models.DayData{}, fmt.Errorf("%w: read day file: %v", ErrIO, err)
	}

	var day models.DayData
	if err := json.Unmarshal(b, &day); err != nil {
		return models.DayData{}, fmt.Errorf("%w: parse %s: %v", ErrCorruptData, date, err)
	}
	// JSON null and {} decode without error but carry no date; a day file
	// without one is not a day record.
	if day.Date.IsZero() {
		return models.DayData{}, fmt.Errorf("%w: day file %s has no date", ErrCorruptData, date)
	}
	return day, nil
}

// SaveDay writes the full record for day.Date, replacing any previous
// content. The write goes to a temp file first and is renamed into place,
// so a failed save leaves the old file intact. Incremental edits are
// load-modify-save; there is no partial merge.
func SaveDay(day models.DayData, dataDir string) error {
	if day.Date.IsZero() {
		return fmt.Errorf("%w: day has no date", ErrInvalidInput)
	}

	b, err := json.MarshalIndent(day, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal day %s: %v", ErrIO, day.Date, err)
	}

	path := DayPath(dataDir, day.Date)
	tmp, err := os.CreateTemp(dataDir, day.Date.String()+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrIO, err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write temp file: %v", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close temp file: %v", ErrIO, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: rename into place: %v", ErrIO, err)
	}
	return nil
}
