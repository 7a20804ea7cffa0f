package directory

import (
	"fmt"
	"strings"

	"github.com/go-ldap/ldap/v3"

	"github.com/opsbrew/dirsync/internal/ldapclient"
	"github.com/opsbrew/dirsync/tools"
)

// ADUser is a simplified Active Directory user object.
type ADUser struct {
	CN             string
	DN             string
	GUID           string
	DisplayName    string
	GivenName      string
	Surname        string
	Email          string
	EmployeeID     string
	Department     string
	Title          string
	StreetAddress  string
	City           string
	State          string
	PostalCode     string
	ManagerDN      string
	SAMAccountName string
	Enabled        bool
	UACFlags       []string
	DirectReports  []string
}

var userAttributes = []string{
	"cn", "mail", "department", "distinguishedName", "st", "userAccountControl",
	"objectGUID", "givenName", "sn", "displayName", "employeeID", "title",
	"streetAddress", "l", "postalCode", "manager", "sAMAccountName", "directReports",
}

// BuildUserFilter assembles the LDAP filter for a user search. Entries in
// filterMap starting with "!" or ending in "=*" are passed through as raw
// fragments; an empty value means the attribute must not exist.
func BuildUserFilter(filterMap map[string]string, enabledOnly bool) string {
	parts := []string{"(objectClass=user)"}

	if enabledOnly {
		parts = append(parts, "(!(userAccountControl:1.2.840.113556.1.4.803:=2))")
	}

	for attr, value := range filterMap {
		switch {
		case strings.HasPrefix(attr, "!") || strings.HasSuffix(attr, "=*"):
			parts = append(parts, attr)
		case value == "":
			parts = append(parts, fmt.Sprintf("(!(%s=*))", ldap.EscapeFilter(attr)))
		default:
			parts = append(parts, fmt.Sprintf("(%s=%s)", ldap.EscapeFilter(attr), ldap.EscapeFilter(value)))
		}
	}

	return fmt.Sprintf("(&%s)", strings.Join(parts, ""))
}

// GetUsersByFilter returns AD users matching the given criteria, skipping
// excluded OUs and, optionally, users without a mail attribute.
func GetUsersByFilter(
	client *ldapclient.Client,
	filterMap map[string]string,
	enabledOnly bool,
	requireMail bool,
	excludeOUs []string,
) ([]ADUser, error) {
	searchReq := ldap.NewSearchRequest(
		client.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, 0, false,
		BuildUserFilter(filterMap, enabledOnly),
		userAttributes,
		nil,
	)

	result, err := client.Conn.Search(searchReq)
	if err != nil {
		return nil, fmt.Errorf("LDAP search failed: %w", err)
	}

	var users []ADUser
	for _, entry := range result.Entries {
		dn := entry.GetAttributeValue("distinguishedName")
		if shouldExcludeOU(dn, excludeOUs) {
			continue
		}

		email := entry.GetAttributeValue("mail")
		if requireMail && email == "" {
			continue
		}

		users = append(users, entryToUser(entry, dn, email))
	}

	return users, nil
}

func entryToUser(entry *ldap.Entry, dn, email string) ADUser {
	uac := entry.GetAttributeValue("userAccountControl")
	return ADUser{
		CN:             entry.GetAttributeValue("cn"),
		DN:             dn,
		GUID:           tools.FormatGUID(entry.GetRawAttributeValue("objectGUID")),
		DisplayName:    entry.GetAttributeValue("displayName"),
		GivenName:      entry.GetAttributeValue("givenName"),
		Surname:        entry.GetAttributeValue("sn"),
		Email:          email,
		EmployeeID:     entry.GetAttributeValue("employeeID"),
		Department:     entry.GetAttributeValue("department"),
		Title:          entry.GetAttributeValue("title"),
		StreetAddress:  entry.GetAttributeValue("streetAddress"),
		City:           entry.GetAttributeValue("l"), // 'l' is the LDAP attribute for city
		State:          entry.GetAttributeValue("st"),
		PostalCode:     entry.GetAttributeValue("postalCode"),
		ManagerDN:      entry.GetAttributeValue("manager"),
		DirectReports:  entry.GetAttributeValues("directReports"),
		SAMAccountName: entry.GetAttributeValue("sAMAccountName"),
		Enabled:        !isUserDisabled(uac),
		UACFlags:       parseUACFlags(uac),
	}
}
