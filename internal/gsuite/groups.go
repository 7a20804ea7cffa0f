package gsuite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/googleapi"

	"github.com/opsbrew/dirsync/internal/reconcile"
	"github.com/opsbrew/dirsync/tools"
)

// Member is the projected shape of a group member on either side of the
// reconciliation: the desired AD email list, or the group's current roster.
type Member struct {
	Email string
	Role  string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SyncGroupWithRoles ensures the Google Group exists and reconciles its
// members against the desired email list. Desired emails found in managers
// are inserted as MANAGER instead of MEMBER. Membership is diffed by
// normalized email; per-member API failures are logged and do not stop the
// rest of the batch.
func SyncGroupWithRoles(
	ctx context.Context,
	svc *admin.Service,
	groupEmail, groupName string,
	desired []string,
	managers map[string]bool,
	dryRun bool,
) (int, int, error) {
	group, err := ensureGroup(svc, groupEmail, groupName)
	if err != nil {
		return 0, 0, fmt.Errorf("google group sync error: %w", err)
	}

	current, err := listMembers(ctx, svc, group.Email)
	if err != nil {
		tools.Log.WithError(err).Errorf("Error fetching group members for %s", group.Email)
	}

	run := reconcile.Reconciliation[string, *admin.Member, Member]{
		Source:       desired,
		SourceFilter: func(email string) bool { return normalizeEmail(email) != "" },
		SourceMap: func(email string) (Member, error) {
			norm := normalizeEmail(email)
			role := "MEMBER"
			if managers[norm] {
				role = "MANAGER"
			}
			return Member{Email: norm, Role: role}, nil
		},
		Target:       current,
		TargetFilter: func(m *admin.Member) bool { return m.Email != "" },
		TargetMap: func(m *admin.Member) (Member, error) {
			return Member{Email: normalizeEmail(m.Email), Role: m.Role}, nil
		},
		Key: func(m Member) string { return m.Email },
		OnAdd: func(adds []Member) error {
			return insertMembers(svc, group.Email, adds, dryRun)
		},
		OnRemove: func(removes []Member) error {
			return deleteMembers(svc, group.Email, removes, dryRun)
		},
	}

	res, err := run.Run()
	for _, issue := range res.Issues {
		tools.Log.WithField("group", group.Email).Warnf("Membership reconcile: %s", issue)
	}

	return len(res.Delta.Adds), len(res.Delta.Removes), err
}

func ensureGroup(svc *admin.Service, email, name string) (*admin.Group, error) {
	group, err := svc.Groups.Get(email).Do()
	if err == nil {
		return group, nil
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code == 404 {
		created, err := svc.Groups.Insert(&admin.Group{
			Email:       email,
			Name:        name,
			Description: "Synced from Active Directory",
		}).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to create group %s: %w", email, err)
		}
		if created == nil {
			return nil, fmt.Errorf("group is nil after creation: %s", email)
		}
		return created, nil
	}

	return nil, fmt.Errorf("failed to get group %s: %w", email, err)
}

func listMembers(ctx context.Context, svc *admin.Service, groupEmail string) ([]*admin.Member, error) {
	var members []*admin.Member
	err := svc.Members.List(groupEmail).Pages(ctx, func(page *admin.Members) error {
		members = append(members, page.Members...)
		return nil
	})
	return members, err
}

func insertMembers(svc *admin.Service, groupEmail string, adds []Member, dryRun bool) error {
	for _, m := range adds {
		if dryRun {
			tools.Log.Infof("[DRY RUN] Would add %s to %s as %s", m.Email, groupEmail, m.Role)
			continue
		}
		_, err := svc.Members.Insert(groupEmail, &admin.Member{Email: m.Email, Role: m.Role}).Do()
		if err != nil {
			tools.Log.WithError(err).Errorf("Failed to add %s to %s", m.Email, groupEmail)
		} else {
			tools.Log.Infof("Added %s to %s as %s", m.Email, groupEmail, m.Role)
		}
	}
	return nil
}

func deleteMembers(svc *admin.Service, groupEmail string, removes []Member, dryRun bool) error {
	for _, m := range removes {
		if dryRun {
			tools.Log.Infof("[DRY RUN] Would remove %s from %s", m.Email, groupEmail)
			continue
		}
		if err := svc.Members.Delete(groupEmail, m.Email).Do(); err != nil {
			tools.Log.WithError(err).Errorf("Failed to remove %s from %s", m.Email, groupEmail)
		} else {
			tools.Log.Infof("Removed %s from %s", m.Email, groupEmail)
		}
	}
	return nil
}

// IsMailboxUser reports whether Gmail is enabled for this user.
func IsMailboxUser(svc *admin.Service, email string) bool {
	user, err := svc.Users.Get(email).Do()
	if err != nil {
		tools.Log.Debugf("Failed user lookup for %s: %v", email, err)
		return false
	}
	return user.IsMailboxSetup
}

// BuildMailboxAllowedList filters emails down to users with a provisioned
// mailbox, caching lookups so duplicate emails cost one API call.
func BuildMailboxAllowedList(svc *admin.Service, emails []string) []string {
	cache := make(map[string]bool, len(emails))
	var allowed []string

	for _, email := range emails {
		norm := normalizeEmail(email)
		if norm == "" {
			continue
		}
		ok, cached := cache[norm]
		if !cached {
			ok = IsMailboxUser(svc, norm)
			cache[norm] = ok
		}
		if ok {
			allowed = append(allowed, norm)
		} else {
			tools.Log.Debugf("Skipping %s — no mailbox", norm)
		}
	}

	return allowed
}
