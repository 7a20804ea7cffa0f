// Package sync drives the per-group sync flows: figure out which users
// belong in each list, reconcile the AD group, reconcile the matching
// Google Group, and report one combined summary per list.
package sync

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/opsbrew/dirsync/internal/directory"
	"github.com/opsbrew/dirsync/internal/gsuite"
	"github.com/opsbrew/dirsync/internal/ldapclient"
	"github.com/opsbrew/dirsync/tools"
)

// cohort is one list's worth of work: the category/value pair naming the
// group and the users who belong in it.
type cohort struct {
	category  string
	value     string
	groupName string
	users     []directory.ADUser

	// checkMailboxes prefilters Google members to users with a provisioned
	// mailbox. Costs one directory lookup per distinct email.
	checkMailboxes bool
}

func (c cohort) groupEmail() string {
	cn := fmt.Sprintf("list-%s-%s", c.category, tools.Slugify(c.value))
	return fmt.Sprintf("%s@%s", cn, strings.TrimSpace(os.Getenv("GROUP_EMAIL_DOMAIN")))
}

// syncCohort runs the full dual sync for one cohort: AD group first, then
// the Google Group with manager roles, then group posting settings.
func syncCohort(ctx context.Context, client *ldapclient.Client, c cohort, dryRun bool) {
	log := tools.Log.WithField(c.category, c.value)

	adAdded, adRemoved, err := directory.SyncGroupByCategory(client, c.category, c.value, c.users, dryRun)
	if err != nil {
		log.Errorf("AD sync error: %v", err)
		return
	}

	// Users managing direct reports get the MANAGER role on the list.
	var memberEmails []string
	managerEmails := map[string]bool{}
	for _, user := range c.users {
		email := strings.ToLower(strings.TrimSpace(user.Email))
		if email == "" {
			continue
		}
		memberEmails = append(memberEmails, email)
		if len(user.DirectReports) > 0 {
			managerEmails[email] = true
		}
	}

	svc, err := gsuite.NewDirectoryService(ctx)
	if err != nil {
		log.Errorf("Failed to create Google Directory client: %v", err)
		return
	}

	if c.checkMailboxes {
		memberEmails = gsuite.BuildMailboxAllowedList(svc, memberEmails)
	}

	groupEmail := c.groupEmail()
	gAdded, gRemoved, err := gsuite.SyncGroupWithRoles(ctx, svc, groupEmail, c.groupName, memberEmails, managerEmails, dryRun)
	if err != nil {
		log.Errorf("Google group sync error: %v", err)
	}

	if !dryRun {
		if err := gsuite.ApplyGroupSettings(ctx, groupEmail); err != nil {
			log.Errorf("Failed to apply Google group settings: %v", err)
		}
	}

	tools.LogSyncCombined(tools.SyncMetrics{
		GroupEmail:    groupEmail,
		TotalUsers:    len(c.users),
		ADAdded:       adAdded,
		ADRemoved:     adRemoved,
		GoogleAdded:   gAdded,
		GoogleRemoved: gRemoved,
	})
}

// usersMatching collects users whose field (per extract) equals value,
// compared case-insensitively with whitespace trimmed.
func usersMatching(users []directory.ADUser, value string, extract func(directory.ADUser) string) []directory.ADUser {
	var matched []directory.ADUser
	for _, user := range users {
		if strings.EqualFold(strings.TrimSpace(extract(user)), value) {
			matched = append(matched, user)
		}
	}
	return matched
}
