package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mlowery/daybook/internal/store"
	"github.com/mlowery/daybook/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	dataDirFlag := flag.String("data", "", "data directory (default: XDG data dir)")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("daybook %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	dataDir := *dataDirFlag
	if dataDir == "" {
		var err error
		dataDir, err = store.DefaultDataDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving data directory: %v\n", err)
			os.Exit(1)
		}
	}

	// Migration of the old calendar-events store is explicit, never run
	// as a side effect of normal startup.
	if flag.Arg(0) == "migrate" {
		result, err := store.MigrateLegacyEvents(dataDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error migrating legacy events: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(result)
		return
	}

	app := ui.NewApp(dataDir)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}
