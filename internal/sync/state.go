package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/opsbrew/dirsync/internal/directory"
	"github.com/opsbrew/dirsync/internal/ldapclient"
	"github.com/opsbrew/dirsync/tools"
)

func SyncStates(client *ldapclient.Client, users []directory.ADUser, dryRun bool) {
	states := directory.UniqueStates(users)
	ctx := context.Background()

	start := time.Now()
	tools.Log.Infof("Syncing %d state-based groups...", len(states))

	tools.RunWithWorkers(states, 5, func(state string) {
		stateUsers := usersMatching(users, state, func(u directory.ADUser) string { return u.State })
		if len(stateUsers) == 0 {
			tools.Log.WithField("state", state).Warn("No users found, skipping.")
			return
		}

		syncCohort(ctx, client, cohort{
			category:  "state",
			value:     state,
			groupName: fmt.Sprintf("State: %s", state),
			users:     stateUsers,
		}, dryRun)
	})

	tools.Log.Infof("Finished syncing states in %s", time.Since(start))
}
