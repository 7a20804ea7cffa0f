package gsuite

import (
	"context"
	"fmt"

	"google.golang.org/api/groupssettings/v1"
)

// ApplyGroupSettings enforces the standard posture for synced lists:
// managers post, members read, no outside joins.
func ApplyGroupSettings(ctx context.Context, groupEmail string) error {
	svc, err := NewGroupsSettingsService(ctx)
	if err != nil {
		return fmt.Errorf("failed to create groups settings client: %w", err)
	}

	settings := &groupssettings.Groups{
		WhoCanPostMessage:      "ALL_MANAGERS_CAN_POST",
		WhoCanJoin:             "INVITED_CAN_JOIN",
		WhoCanViewMembership:   "ALL_IN_DOMAIN_CAN_VIEW",
		WhoCanViewGroup:        "ALL_MEMBERS_CAN_VIEW",
		AllowExternalMembers:   "false",
		MessageModerationLevel: "MODERATE_NONE",
	}

	if _, err := svc.Groups.Patch(groupEmail, settings).Do(); err != nil {
		return fmt.Errorf("failed to patch settings for %s: %w", groupEmail, err)
	}

	return nil
}
