package sync

import (
	"context"
	"fmt"

	"github.com/opsbrew/dirsync/internal/directory"
	"github.com/opsbrew/dirsync/internal/ldapclient"
	"github.com/opsbrew/dirsync/tools"
)

// SyncManagers maintains one list per manager containing the manager and
// their direct reports.
func SyncManagers(client *ldapclient.Client, users []directory.ADUser, dryRun bool) {
	managerMap := directory.GroupUsersByManager(users)
	ctx := context.Background()

	// Index users by DN so manager lookups don't rescan the slice.
	byDN := make(map[string]directory.ADUser, len(users))
	for _, u := range users {
		byDN[directory.NormalizeDN(u.DN)] = u
	}

	tools.Log.Infof("Syncing %d manager-based distribution lists...", len(managerMap))

	tools.RunWithWorkers(tools.MapKeys(managerMap), 5, func(managerDN string) {
		manager, ok := byDN[directory.NormalizeDN(managerDN)]
		if !ok || manager.Email == "" {
			tools.Log.WithField("manager", managerDN).Warn("Manager not found or has no email.")
			return
		}

		members := append(managerMap[managerDN], manager)

		syncCohort(ctx, client, cohort{
			category:  "reports",
			value:     manager.SAMAccountName,
			groupName: fmt.Sprintf("Manager: %s", manager.DisplayName),
			users:     members,
		}, dryRun)
	})

	tools.Log.Info("Finished syncing manager-based distribution lists.")
}
