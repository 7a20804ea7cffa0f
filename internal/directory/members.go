package directory

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"github.com/sirupsen/logrus"

	"github.com/opsbrew/dirsync/internal/ldapclient"
	"github.com/opsbrew/dirsync/internal/reconcile"
	"github.com/opsbrew/dirsync/tools"
)

// GroupMember is the shape both sides of a membership sync reduce to: the
// desired ADUser set on one side, the group's raw member DNs on the other.
type GroupMember struct {
	DN          string
	DisplayName string
}

// SyncGroupByCategory ensures the list-<category>-<slug> group exists under
// the configured OU and reconciles its members. Returns counts of members
// added and removed.
func SyncGroupByCategory(client *ldapclient.Client, category, value string, users []ADUser, dryRun bool) (int, int, error) {
	groupCN := fmt.Sprintf("list-%s-%s", category, tools.Slugify(value))
	email := fmt.Sprintf("%s@%s", groupCN, strings.TrimSpace(os.Getenv("GROUP_EMAIL_DOMAIN")))
	groupOU := strings.TrimSpace(os.Getenv("GROUP_OU"))

	group, err := EnsureGroupExists(client, groupCN, email, groupOU, value)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to ensure group: %w", err)
	}

	// Always ensure the mail attribute is correct
	if mailErr := EnsureGroupMailAttribute(client, group.DN, email); mailErr != nil {
		tools.Log.WithError(mailErr).Warnf("Could not update mail attribute for %s", group.DN)
	}

	return SyncGroupMembers(client, group, users, groupCN, dryRun)
}

// SyncGroupMembers reconciles a group's member attribute against the desired
// user set, keyed by normalized DN. Adds and removes each go out as a single
// multi-valued Modify rather than one request per member.
func SyncGroupMembers(client *ldapclient.Client, group *ADGroup, users []ADUser, label string, dryRun bool) (int, int, error) {
	run := reconcile.Reconciliation[ADUser, string, GroupMember]{
		Source:       users,
		SourceFilter: func(u ADUser) bool { return u.DN != "" },
		SourceMap: func(u ADUser) (GroupMember, error) {
			return GroupMember{DN: u.DN, DisplayName: u.DisplayName}, nil
		},
		Target: group.Members,
		TargetMap: func(dn string) (GroupMember, error) {
			return GroupMember{DN: dn}, nil
		},
		Key: func(m GroupMember) string { return m.DN },
		OnAdd: func(adds []GroupMember) error {
			return applyMembershipChange(client, group.DN, label, "add", memberDNs(adds), dryRun)
		},
		OnRemove: func(removes []GroupMember) error {
			return applyMembershipChange(client, group.DN, label, "remove", memberDNs(removes), dryRun)
		},
	}

	res, err := run.Run()

	for _, issue := range res.Issues {
		tools.Log.WithField("group", label).Warnf("Membership reconcile: %s", issue)
	}
	tools.Log.WithFields(logrus.Fields{
		"group":  label,
		"add":    len(res.Delta.Adds),
		"remove": len(res.Delta.Removes),
	}).Debug("Sync plan")

	return len(res.Delta.Adds), len(res.Delta.Removes), err
}

func memberDNs(members []GroupMember) []string {
	dns := make([]string, len(members))
	for n, m := range members {
		dns[n] = m.DN
	}
	return dns
}

func applyMembershipChange(client *ldapclient.Client, groupDN, label, op string, dns []string, dryRun bool) error {
	if dryRun {
		for _, dn := range dns {
			tools.Log.Debugf("[DRY] %s %s ↔ %s", op, dn, label)
		}
		return nil
	}

	modReq := ldap.NewModifyRequest(groupDN, nil)
	if op == "add" {
		modReq.Add("member", dns)
	} else {
		modReq.Delete("member", dns)
	}

	if err := client.Conn.Modify(modReq); err != nil {
		return fmt.Errorf("failed to %s %d members on %s: %w", op, len(dns), groupDN, err)
	}

	tools.Log.Debugf("Applied %s of %d members on %s", op, len(dns), label)
	return nil
}
