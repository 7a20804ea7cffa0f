package sync

import (
	"context"
	"time"

	"github.com/opsbrew/dirsync/internal/directory"
	"github.com/opsbrew/dirsync/internal/ldapclient"
	"github.com/opsbrew/dirsync/tools"
)

func SyncAllEmployees(client *ldapclient.Client, users []directory.ADUser, dryRun bool) {
	ctx := context.Background()
	start := time.Now()

	tools.Log.Info("Syncing All Employees distribution list...")
	tools.Log.Infof("Found %d eligible employees", len(users))

	syncCohort(ctx, client, cohort{
		category:  "all",
		value:     "employees",
		groupName: "All Employees",
		users:     users,
		// The whole company goes in this list, so weed out service
		// accounts and the unprovisioned first.
		checkMailboxes: true,
	}, dryRun)

	tools.Log.Infof("Finished All Employees sync in %s", time.Since(start))
}
