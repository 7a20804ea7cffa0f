package directory

import (
	"errors"
	"fmt"

	"github.com/go-ldap/ldap/v3"
	"github.com/sirupsen/logrus"

	"github.com/opsbrew/dirsync/internal/ldapclient"
	"github.com/opsbrew/dirsync/tools"
)

var ErrGroupNotFound = errors.New("group not found")

// EnsureGroupExists fetches the group by email, falls back to CN (repairing
// a missing mail attribute), and creates it when neither match. Tolerates a
// concurrent creator losing the race on the Add.
func EnsureGroupExists(client *ldapclient.Client, cn, email, ou, label string) (*ADGroup, error) {
	tools.Log.WithFields(logrus.Fields{
		"cn":    cn,
		"email": email,
	}).Debug("Ensuring group exists")

	group, err := GetGroupByEmail(client, email, ou)
	if err == nil {
		return group, nil
	}

	group, errCN := GetGroupByCN(client, cn, ou)
	if errCN == nil {
		tools.Log.WithField("cn", cn).Debug("Group found by CN (mail may be missing)")
		if mailErr := EnsureGroupMailAttribute(client, group.DN, email); mailErr != nil {
			tools.Log.WithFields(logrus.Fields{
				"cn":    cn,
				"error": mailErr,
			}).Warn("Failed to update mail attribute")
		}
		return group, nil
	}

	tools.Log.WithFields(logrus.Fields{
		"cn":    cn,
		"email": email,
	}).Info("Group not found, creating new group")

	if err := CreateGroup(client, cn, email, ou, label); err != nil {
		var ldapErr *ldap.Error
		if errors.As(err, &ldapErr) && ldapErr.ResultCode == ldap.LDAPResultEntryAlreadyExists {
			tools.Log.WithField("cn", cn).Warn("Group already created by another process. Retrying fetch...")
		} else {
			return nil, fmt.Errorf("failed to create group: %w", err)
		}
	}

	group, err = GetGroupByEmail(client, email, ou)
	if err != nil {
		return nil, fmt.Errorf("group created but cannot be fetched: %w", err)
	}

	tools.Log.WithField("cn", cn).Info("Group creation confirmed")
	return group, nil
}
