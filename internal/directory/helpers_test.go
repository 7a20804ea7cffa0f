package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDN(t *testing.T) {
	assert.Equal(t, "cn=jane doe,ou=users,dc=corp", NormalizeDN("  CN=Jane Doe,OU=Users,DC=corp "))
}

func TestUniqueStates(t *testing.T) {
	users := []ADUser{
		{State: " ca "},
		{State: "CA"},
		{State: "ny"},
		{State: ""},
	}
	assert.Equal(t, []string{"CA", "NY"}, UniqueStates(users))
}

func TestUniqueDepartments(t *testing.T) {
	users := []ADUser{
		{Department: "human resources"},
		{Department: "HUMAN RESOURCES "},
		{Department: "Engineering"},
		{Department: "  "},
	}
	assert.Equal(t, []string{"Engineering", "Human Resources"}, UniqueDepartments(users))
}

func TestGroupUsersByManager(t *testing.T) {
	users := []ADUser{
		{SAMAccountName: "a", ManagerDN: "CN=Boss,DC=corp"},
		{SAMAccountName: "b", ManagerDN: " cn=boss,dc=corp "},
		{SAMAccountName: "c", ManagerDN: "CN=Other,DC=corp"},
		{SAMAccountName: "d"},
	}

	grouped := GroupUsersByManager(users)
	require.Len(t, grouped, 2)
	assert.Len(t, grouped["cn=boss,dc=corp"], 2)
	assert.Len(t, grouped["cn=other,dc=corp"], 1)
}

func TestShouldExcludeOU(t *testing.T) {
	dn := "CN=Jane,OU=External Users,DC=corp"
	assert.True(t, shouldExcludeOU(dn, []string{"ou=external users"}))
	assert.False(t, shouldExcludeOU(dn, []string{"OU=Archived Users"}))
	assert.False(t, shouldExcludeOU(dn, nil))
}

func TestIsUserDisabled(t *testing.T) {
	assert.True(t, isUserDisabled("512,2"))
	assert.False(t, isUserDisabled("513"))
}

func TestBuildUserFilter(t *testing.T) {
	assert.Equal(t, "(&(objectClass=user))", BuildUserFilter(nil, false))

	assert.Equal(t,
		"(&(objectClass=user)(!(userAccountControl:1.2.840.113556.1.4.803:=2)))",
		BuildUserFilter(nil, true))

	assert.Equal(t,
		"(&(objectClass=user)(department=Engineering))",
		BuildUserFilter(map[string]string{"department": "Engineering"}, false))

	// Empty value means "attribute absent".
	assert.Equal(t,
		"(&(objectClass=user)(!(manager=*)))",
		BuildUserFilter(map[string]string{"manager": ""}, false))

	// Raw fragments pass through unescaped.
	assert.Equal(t,
		"(&(objectClass=user)!(lastLogon=*))",
		BuildUserFilter(map[string]string{"!(lastLogon=*)": ""}, false))
}

func TestBuildUserFilterEscapesValues(t *testing.T) {
	filter := BuildUserFilter(map[string]string{"cn": "a(b)c"}, false)
	assert.Equal(t, `(&(objectClass=user)(cn=a\28b\29c))`, filter)
}
