package gsuite

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	admin "google.golang.org/api/admin/directory/v1"
	"google.golang.org/api/groupssettings/v1"
	"google.golang.org/api/option"
)

// jwtClient builds an impersonating service-account client. Workspace admin
// APIs require domain-wide delegation, so the subject is mandatory.
func jwtClient(ctx context.Context, scopes ...string) (*http.Client, error) {
	credsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credsPath == "" {
		return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS env var not set")
	}

	data, err := os.ReadFile(credsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account JSON: %w", err)
	}

	impersonateUser := os.Getenv("GOOGLE_IMPERSONATE_USER")
	if impersonateUser == "" {
		return nil, fmt.Errorf("GOOGLE_IMPERSONATE_USER env var not set")
	}

	config, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	config.Subject = impersonateUser

	return config.Client(ctx), nil
}

// NewDirectoryService returns an Admin SDK directory client for group and
// user management.
func NewDirectoryService(ctx context.Context) (*admin.Service, error) {
	client, err := jwtClient(ctx,
		admin.AdminDirectoryGroupScope,
		admin.AdminDirectoryUserScope,
	)
	if err != nil {
		return nil, err
	}
	return admin.NewService(ctx, option.WithHTTPClient(client))
}

// NewGroupsSettingsService returns a client for per-group posting and
// moderation settings.
func NewGroupsSettingsService(ctx context.Context) (*groupssettings.Service, error) {
	client, err := jwtClient(ctx, groupssettings.AppsGroupsSettingsScope)
	if err != nil {
		return nil, err
	}
	return groupssettings.NewService(ctx, option.WithHTTPClient(client))
}
