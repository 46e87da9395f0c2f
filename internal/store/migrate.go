package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mlowery/daybook/internal/models"
)

// LegacyEventsFile is the retired calendar-events store folded into the
// per-day todo model by MigrateLegacyEvents.
const LegacyEventsFile = "calendar_events.json"

// MigrationStatus classifies the outcome of a migration run
type MigrationStatus int

const (
	// MigrationNotNeeded means no legacy file was present; nothing was done.
	MigrationNotNeeded MigrationStatus = iota
	// MigrationEmpty means the legacy file held no events and was only
	// renamed to its backup.
	MigrationEmpty
	// MigrationDone means events were merged into day records and the
	// legacy file was renamed to its backup.
	MigrationDone
)

// MigrationResult reports what a migration run did
type MigrationResult struct {
	Status MigrationStatus
	Items  int // todos created from legacy events
	Dates  int // distinct dates touched
}

func (r MigrationResult) String() string {
	switch r.Status {
	case MigrationNotNeeded:
		return "no legacy calendar events found, nothing to migrate"
	case MigrationEmpty:
		return "legacy calendar events file was empty, backed up and removed"
	default:
		return fmt.Sprintf("migrated %d event(s) across %d day(s)", r.Items, r.Dates)
	}
}

// MigrateLegacyEvents folds the legacy calendar-events store into per-day
// records. Each event becomes a fresh todo placed before the date's
// existing todos; existing todos and day notes are left untouched. After
// processing, the legacy file is renamed to <name>.backup, overwriting any
// previous backup, so a second run finds nothing and is a no-op.
//
// The merge is not transactional across dates: if a date fails mid-run,
// days already saved stay saved and the legacy file stays in place.
func MigrateLegacyEvents(dataDir string) (MigrationResult, error) {
	legacyPath := filepath.Join(dataDir, LegacyEventsFile)

	b, err := os.ReadFile(legacyPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return MigrationResult{Status: MigrationNotNeeded}, nil
		}
		return MigrationResult{}, fmt.Errorf("%w: read legacy events: %v", ErrIO, err)
	}

	var events map[string][]string
	if err := json.Unmarshal(b, &events); err != nil {
		return MigrationResult{}, fmt.Errorf("%w: parse legacy events: %v", ErrCorruptData, err)
	}
	// JSON null decodes to a nil map without error; only a real (possibly
	// empty) object is a legacy event store.
	if events == nil {
		return MigrationResult{}, fmt.Errorf("%w: legacy events file is not an object", ErrCorruptData)
	}

	if len(events) == 0 {
		if err := retireLegacyFile(legacyPath); err != nil {
			return MigrationResult{}, err
		}
		return MigrationResult{Status: MigrationEmpty}, nil
	}

	// Stable order keeps reruns after a mid-batch failure predictable.
	keys := make([]string, 0, len(events))
	for k := range events {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := MigrationResult{Status: MigrationDone}
	for _, dateKey := range keys {
		day, err := LoadDay(dateKey, dataDir)
		if err != nil {
			return MigrationResult{}, fmt.Errorf("migrate %s: %w", dateKey, err)
		}

		texts := events[dateKey]
		migrated := make([]models.TodoItem, 0, len(texts))
		for _, text := range texts {
			migrated = append(migrated, models.NewTodoItem(text))
		}

		day.Todos = append(migrated, day.Todos...)
		if err := SaveDay(day, dataDir); err != nil {
			return MigrationResult{}, fmt.Errorf("migrate %s: %w", dateKey, err)
		}

		result.Items += len(texts)
		result.Dates++
	}

	if err := retireLegacyFile(legacyPath); err != nil {
		return MigrationResult{}, err
	}
	return result, nil
}

// retireLegacyFile renames the legacy store to its backup name. An
// existing backup is overwritten; there is no versioning.
func retireLegacyFile(legacyPath string) error {
	if err := os.Rename(legacyPath, legacyPath+".backup"); err != nil {
		return fmt.Errorf("%w: back up legacy events: %v", ErrIO, err)
	}
	return nil
}
