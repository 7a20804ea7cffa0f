package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Dry-run syncs never touch the connection, so a nil client is fine here.

func TestSyncGroupMembersDryRunCounts(t *testing.T) {
	group := &ADGroup{
		DN: "CN=list-dept-eng,OU=Groups,DC=corp",
		Members: []string{
			"CN=Bob,OU=Users,DC=corp",
			"CN=Carol,OU=Users,DC=corp",
		},
	}
	users := []ADUser{
		{DN: "CN=Alice,OU=Users,DC=corp", DisplayName: "Alice"},
		{DN: "cn=bob,ou=users,dc=corp", DisplayName: "Bob"}, // case-differs from current member
	}

	added, removed, err := SyncGroupMembers(nil, group, users, "list-dept-eng", true)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)
}

func TestSyncGroupMembersConverged(t *testing.T) {
	group := &ADGroup{
		DN:      "CN=list-all-employees,OU=Groups,DC=corp",
		Members: []string{"CN=Alice,OU=Users,DC=corp"},
	}
	users := []ADUser{{DN: " CN=ALICE,OU=Users,DC=corp "}}

	added, removed, err := SyncGroupMembers(nil, group, users, "list-all-employees", true)
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Zero(t, removed)
}

func TestSyncGroupMembersSkipsUsersWithoutDN(t *testing.T) {
	group := &ADGroup{DN: "CN=g,OU=Groups,DC=corp"}
	users := []ADUser{{DN: ""}, {DN: "CN=Alice,OU=Users,DC=corp"}}

	added, removed, err := SyncGroupMembers(nil, group, users, "g", true)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Zero(t, removed)
}
