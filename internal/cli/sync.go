package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/droidrepo/pkg/index"
	"github.com/glorpus-work/droidrepo/pkg/logger"
	"github.com/glorpus-work/droidrepo/pkg/orchestrator"
)

// NewSyncCmd creates the sync command.
func NewSyncCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize repository indexes",
		Long: `Synchronize repository indexes by downloading the latest
package lists from the configured repositories. Indexes that did not
change since the last sync are skipped unless --force is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Download every index even when unchanged")

	return cmd
}

func runSync(cmd *cobra.Command, force bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sel, err := loadSelector(cfg)
	if err != nil {
		return err
	}
	idx := loadIndexManager(cfg)
	orch := &orchestrator.Orchestrator{
		Selector: sel,
		Hooks:    orchestrator.Hooks{OnEvent: logEvent},
	}

	logger.Debug("Synchronizing repository indexes...")

	var repos []*index.Repository
	for _, repo := range idx.ListRepositories() {
		if repo.Enabled {
			repos = append(repos, repo)
		}
	}

	results, syncErr := orch.SyncAll(cmd.Context(), repos, cfg.GetIndexDir(), orchestrator.Options{
		Concurrency: cfg.Settings.MaxConcurrent,
		Force:       force,
	})
	if jsonOutput(cfg) {
		if err := printJSON(syncReport(results)); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			if res.Err != nil {
				logger.Error("Repository sync failed", logrus.Fields{"repository": res.Repository, "error": res.Err})
				continue
			}
			logger.Info("Repository synced", logrus.Fields{
				"repository": res.Repository,
				"outcome":    res.Outcome.String(),
				"changed":    res.Changed,
			})
		}
	}

	if syncErr != nil {
		return fmt.Errorf("failed to sync repositories: %w", syncErr)
	}
	logger.Success("Repository indexes synchronized successfully")
	return nil
}

type syncEntry struct {
	Repository string `json:"repository"`
	Outcome    string `json:"outcome"`
	Changed    bool   `json:"changed"`
	Error      string `json:"error,omitempty"`
}

func syncReport(results []orchestrator.SyncResult) []syncEntry {
	out := make([]syncEntry, 0, len(results))
	for _, res := range results {
		e := syncEntry{Repository: res.Repository, Outcome: res.Outcome.String(), Changed: res.Changed}
		if res.Err != nil {
			e.Outcome = ""
			e.Error = res.Err.Error()
		}
		out = append(out, e)
	}
	return out
}
