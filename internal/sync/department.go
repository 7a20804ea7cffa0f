package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/opsbrew/dirsync/internal/directory"
	"github.com/opsbrew/dirsync/internal/ldapclient"
	"github.com/opsbrew/dirsync/tools"
)

func SyncDepartments(client *ldapclient.Client, users []directory.ADUser, dryRun bool) {
	departments := directory.UniqueDepartments(users)
	ctx := context.Background()

	start := time.Now()
	tools.Log.Infof("Syncing %d department-based groups...", len(departments))

	tools.RunWithWorkers(departments, 5, func(dept string) {
		deptUsers := usersMatching(users, dept, func(u directory.ADUser) string { return u.Department })
		if len(deptUsers) == 0 {
			tools.Log.WithField("dept", dept).Warn("No users found, skipping.")
			return
		}

		syncCohort(ctx, client, cohort{
			category:  "dept",
			value:     dept,
			groupName: fmt.Sprintf("Dept: %s", dept),
			users:     deptUsers,
		}, dryRun)
	})

	tools.Log.Infof("Finished syncing departments in %s", time.Since(start))
}
