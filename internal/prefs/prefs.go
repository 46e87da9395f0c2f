// Package prefs persists small UI preferences, one JSON file per value.
// Reads are defensive: a missing or unusable file yields the documented
// default instead of blocking the application.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/mlowery/daybook/internal/store"
)

const (
	zoomFile     = "zoom_level.json"
	darkModeFile = "dark_mode.json"

	// DefaultZoom is used when no zoom preference is stored or the stored
	// value is unusable.
	DefaultZoom = 1.0
)

// ZoomLimits is the closed valid range for the zoom level. A single value
// feeds the save validation, the load coercion and the UI clamp so the
// bounds cannot drift apart.
type ZoomLimits struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GetZoomLimits returns the fixed zoom bounds
func GetZoomLimits() ZoomLimits {
	return ZoomLimits{Min: 0.5, Max: 3.0}
}

type zoomPref struct {
	ZoomLevel float64 `json:"zoom_level"`
}

type darkModePref struct {
	DarkMode bool `json:"dark_mode"`
}

// SaveZoom persists the zoom level. Non-finite values and finite values
// outside the limits are rejected; out-of-range values are never clamped
// on write (the stricter of the two historical behaviors).
func SaveZoom(value float64, dataDir string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: zoom level must be finite, got %v", store.ErrInvalidInput, value)
	}
	limits := GetZoomLimits()
	if value < limits.Min || value > limits.Max {
		return fmt.Errorf("%w: zoom level %v outside [%v, %v]", store.ErrInvalidInput, value, limits.Min, limits.Max)
	}
	return writePref(filepath.Join(dataDir, zoomFile), zoomPref{ZoomLevel: value})
}

// LoadZoom returns the stored zoom level, or DefaultZoom when the file is
// missing, unreadable, or holds an out-of-range value. A corrupted zoom
// preference never fails the caller.
func LoadZoom(dataDir string) float64 {
	b, err := os.ReadFile(filepath.Join(dataDir, zoomFile))
	if err != nil {
		return DefaultZoom
	}
	var p zoomPref
	if err := json.Unmarshal(b, &p); err != nil {
		return DefaultZoom
	}
	limits := GetZoomLimits()
	if math.IsNaN(p.ZoomLevel) || p.ZoomLevel < limits.Min || p.ZoomLevel > limits.Max {
		return DefaultZoom
	}
	return p.ZoomLevel
}

// SaveDarkMode persists the dark-mode flag verbatim
func SaveDarkMode(value bool, dataDir string) error {
	return writePref(filepath.Join(dataDir, darkModeFile), darkModePref{DarkMode: value})
}

// LoadDarkMode returns the stored dark-mode flag, defaulting to false when
// no preference file exists. A file that exists but does not parse is
// corrupt data, not a default.
func LoadDarkMode(dataDir string) (bool, error) {
	b, err := os.ReadFile(filepath.Join(dataDir, darkModeFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: read dark mode: %v", store.ErrIO, err)
	}
	var p darkModePref
	if err := json.Unmarshal(b, &p); err != nil {
		return false, fmt.Errorf("%w: parse dark mode: %v", store.ErrCorruptData, err)
	}
	return p.DarkMode, nil
}

func writePref(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal preference: %v", store.ErrIO, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("%w: write preference: %v", store.ErrIO, err)
	}
	return nil
}
