package main

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/opsbrew/dirsync/internal/directory"
	"github.com/opsbrew/dirsync/internal/ldapclient"
	"github.com/opsbrew/dirsync/internal/sync"
	"github.com/opsbrew/dirsync/tools"
)

var (
	dryRun  bool
	targets []string
	envFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dirsync",
		Short: "Reconcile AD and Google Workspace distribution groups against the directory",
		Long: "dirsync derives department, state, manager, and all-employee distribution\n" +
			"lists from Active Directory users and reconciles both the AD groups and the\n" +
			"matching Google Groups toward that desired state.",
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute and log the delta without modifying anything")
	rootCmd.Flags().StringSliceVar(&targets, "targets", nil, "sync targets (departments, states, managers, all-employees, all); overrides SYNC_TARGETS")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "path to the environment file")

	if err := rootCmd.Execute(); err != nil {
		tools.Log.Fatalf("Sync failed: %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(envFile); err != nil {
		tools.Log.Warnf("No env file loaded from %s: %v", envFile, err)
	}
	tools.InitLogger()

	client, err := ldapclient.Connect(ldapclient.ConfigFromEnv())
	if err != nil {
		return err
	}
	defer client.Close()

	// Load all eligible users once; every sync target works from this set.
	excludedOUs := splitList("EXCLUDED_OUS", "OU=External Users", "OU=Archived Users")
	allUsers, err := directory.GetUsersByFilter(
		client,
		nil,  // no custom filter map
		true, // only enabled users
		true, // require mail attribute
		excludedOUs,
	)
	if err != nil {
		return err
	}
	tools.Log.Infof("Loaded %d eligible users", len(allUsers))

	start := time.Now()
	if err := sync.RunAll(client, allUsers, targets, dryRun); err != nil {
		return err
	}
	tools.Log.Infof("Finished syncing all groups in %s", time.Since(start))
	return nil
}

func splitList(envKey string, defaults ...string) []string {
	raw := os.Getenv(envKey)
	if raw == "" {
		return defaults
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
