package directory

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"
	"github.com/sirupsen/logrus"

	"github.com/opsbrew/dirsync/internal/ldapclient"
	"github.com/opsbrew/dirsync/tools"
)

type ADGroup struct {
	CN         string
	DN         string
	Email      string
	Members    []string
	ObjectGUID string
}

var groupAttributes = []string{"cn", "distinguishedName", "mail", "member", "objectGUID"}

// GetGroupByEmail looks up a group by its mail attribute under baseDN.
func GetGroupByEmail(client *ldapclient.Client, email, baseDN string) (*ADGroup, error) {
	filter := fmt.Sprintf("(mail=%s)", ldap.EscapeFilter(email))
	group, err := findGroup(client, baseDN, filter)
	if err != nil {
		return nil, fmt.Errorf("group not found with email %s: %w", email, err)
	}
	return group, nil
}

// GetGroupByCN looks up a group by its common name under baseDN.
func GetGroupByCN(client *ldapclient.Client, cn, baseDN string) (*ADGroup, error) {
	filter := fmt.Sprintf("(cn=%s)", ldap.EscapeFilter(cn))
	group, err := findGroup(client, baseDN, filter)
	if err != nil {
		return nil, fmt.Errorf("group not found with CN %s: %w", cn, err)
	}
	return group, nil
}

func findGroup(client *ldapclient.Client, baseDN, filter string) (*ADGroup, error) {
	searchReq := ldap.NewSearchRequest(
		baseDN,
		ldap.ScopeSingleLevel,
		ldap.NeverDerefAliases,
		1, 0, false,
		filter,
		groupAttributes,
		nil,
	)

	result, err := client.Conn.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("LDAP search error: %w", err)
	}
	if len(result.Entries) == 0 {
		return nil, ErrGroupNotFound
	}

	entry := result.Entries[0]
	return &ADGroup{
		CN:         entry.GetAttributeValue("cn"),
		DN:         entry.DN,
		Email:      entry.GetAttributeValue("mail"),
		Members:    entry.GetAttributeValues("member"),
		ObjectGUID: tools.FormatGUID(entry.GetRawAttributeValue("objectGUID")),
	}, nil
}

// CreateGroup creates a mail-enabled distribution group under the given OU.
func CreateGroup(client *ldapclient.Client, cn, email, ou, label string) error {
	groupDN := fmt.Sprintf("CN=%s,%s", cn, ou)
	displayName := fmt.Sprintf("All %s Employees", label)

	addReq := ldap.NewAddRequest(groupDN, nil)
	addReq.Attribute("objectClass", []string{"top", "group"})
	addReq.Attribute("cn", []string{cn})
	addReq.Attribute("sAMAccountName", []string{cn})
	addReq.Attribute("mail", []string{email})
	addReq.Attribute("displayName", []string{displayName})
	addReq.Attribute("description", []string{displayName + " distro group"})
	addReq.Attribute("groupType", []string{fmt.Sprint(0x00000008)}) // universal distribution

	if err := client.Conn.Add(addReq); err != nil {
		tools.Log.WithFields(logrus.Fields{
			"dn":    groupDN,
			"error": err,
		}).Error("Failed to create group")
		return fmt.Errorf("failed to create group: %w", err)
	}

	tools.Log.WithField("cn", cn).Info("Group created successfully")
	return nil
}

// EnsureGroupMailAttribute sets or replaces the group's mail attribute when
// it does not already match expectedEmail.
func EnsureGroupMailAttribute(client *ldapclient.Client, groupDN, expectedEmail string) error {
	searchReq := ldap.NewSearchRequest(
		groupDN,
		ldap.ScopeBaseObject,
		ldap.NeverDerefAliases,
		1, 0, false,
		"(objectClass=group)",
		[]string{"mail"},
		nil,
	)

	result, err := client.Conn.Search(searchReq)
	if err != nil {
		return fmt.Errorf("failed to search for group mail attribute: %w", err)
	}
	if len(result.Entries) == 0 {
		return fmt.Errorf("group not found at DN: %s", groupDN)
	}

	currentMail := result.Entries[0].GetAttributeValue("mail")
	if currentMail == expectedEmail {
		tools.Log.WithField("dn", groupDN).Debug("Mail attribute already correct")
		return nil
	}

	modReq := ldap.NewModifyRequest(groupDN, nil)
	if currentMail != "" {
		modReq.Replace("mail", []string{expectedEmail})
	} else {
		modReq.Add("mail", []string{expectedEmail})
	}
	tools.Log.WithFields(logrus.Fields{
		"dn":    groupDN,
		"email": expectedEmail,
	}).Info("Updating group mail attribute")

	if err := client.Conn.Modify(modReq); err != nil {
		return fmt.Errorf("failed to update mail attribute: %w", err)
	}

	return nil
}
