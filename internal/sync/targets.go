package sync

import (
	"os"
	"strings"

	"github.com/opsbrew/dirsync/internal/directory"
	"github.com/opsbrew/dirsync/internal/ldapclient"
	"github.com/opsbrew/dirsync/tools"
)

// RunAll dispatches the selected sync targets. An empty targets slice falls
// back to the SYNC_TARGETS env var; "all" enables everything.
func RunAll(client *ldapclient.Client, users []directory.ADUser, targets []string, dryRun bool) error {
	if len(targets) == 0 {
		targets = strings.Split(os.Getenv("SYNC_TARGETS"), ",")
	}

	selected := make(map[string]bool, len(targets))
	for _, t := range targets {
		selected[strings.ToLower(strings.TrimSpace(t))] = true
	}

	shouldRun := func(name string) bool {
		return selected[name] || selected["all"]
	}

	if shouldRun("departments") {
		tools.Log.Info("Running department group sync...")
		SyncDepartments(client, users, dryRun)
	}
	if shouldRun("states") {
		tools.Log.Info("Running state group sync...")
		SyncStates(client, users, dryRun)
	}
	if shouldRun("managers") {
		tools.Log.Info("Running manager group sync...")
		SyncManagers(client, users, dryRun)
	}
	if shouldRun("all-employees") {
		tools.Log.Info("Running all employees group sync...")
		SyncAllEmployees(client, users, dryRun)
	}

	return nil
}
