package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mlowery/daybook/internal/models"
	"github.com/mlowery/daybook/internal/prefs"
	"github.com/mlowery/daybook/internal/ui/keys"
	"github.com/mlowery/daybook/internal/ui/styles"
	"github.com/mlowery/daybook/internal/ui/views"
)

// ZoomStep is how much one zoom keypress changes the level
const ZoomStep = 0.1

// App owns the UI preferences and routes everything else to the day view
type App struct {
	dataDir  string
	dayView  *views.DayView
	keys     keys.KeyMap
	zoom     float64
	darkMode bool
	width    int
	height   int
}

// NewApp creates the application rooted at today's date. Preferences are
// read up front; a corrupted dark-mode file falls back to light rather
// than blocking startup.
func NewApp(dataDir string) *App {
	zoom := prefs.LoadZoom(dataDir)
	darkMode, err := prefs.LoadDarkMode(dataDir)
	if err != nil {
		darkMode = false
	}

	s := styles.NewStyles(styles.ThemeFor(darkMode))
	return &App{
		dataDir:  dataDir,
		dayView:  views.NewDayView(dataDir, models.Today(), s, zoom),
		keys:     keys.DefaultKeyMap(),
		zoom:     zoom,
		darkMode: darkMode,
	}
}

func (a *App) Init() tea.Cmd {
	return a.dayView.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		// Zoom and theme are app-level, but never while the view is
		// capturing text.
		if !a.dayView.Capturing() {
			switch {
			case key.Matches(msg, a.keys.ZoomIn):
				a.setZoom(a.zoom + ZoomStep)
				return a, nil
			case key.Matches(msg, a.keys.ZoomOut):
				a.setZoom(a.zoom - ZoomStep)
				return a, nil
			case key.Matches(msg, a.keys.DarkMode):
				a.darkMode = !a.darkMode
				// Best-effort persistence; the toggle applies either way.
				_ = prefs.SaveDarkMode(a.darkMode, a.dataDir)
				a.refreshStyles()
				return a, nil
			}
		}
	}

	_, cmd := a.dayView.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	return a.dayView.View()
}

// setZoom clamps the requested level to the store's limits and persists
// it; the save cannot fail validation after the clamp.
func (a *App) setZoom(zoom float64) {
	limits := prefs.GetZoomLimits()
	if zoom < limits.Min {
		zoom = limits.Min
	}
	if zoom > limits.Max {
		zoom = limits.Max
	}
	if zoom == a.zoom {
		return
	}
	a.zoom = zoom
	_ = prefs.SaveZoom(zoom, a.dataDir)
	a.refreshStyles()
}

func (a *App) refreshStyles() {
	a.dayView.SetStyles(styles.NewStyles(styles.ThemeFor(a.darkMode)), a.zoom)
}
