package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/droidrepo/pkg/config"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/logger"
)

// NewRepoCmd creates the repo command with subcommands.
func NewRepoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repo",
		Short: "Manage repositories",
		Long:  "Add, remove and list package repositories",
	}

	cmd.AddCommand(
		newRepoAddCmd(),
		newRepoRemoveCmd(),
		newRepoListCmd(),
	)

	return cmd
}

func newRepoAddCmd() *cobra.Command {
	var (
		priority uint
		disabled bool
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "add NAME URL",
		Short: "Add a repository",
		Long:  "Add a package repository. Credentials are sent to every URL below the repository URL.",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRepoAdd(args[0], args[1], priority, !disabled, username, password)
		},
	}

	cmd.Flags().UintVar(&priority, "priority", 0, "Repository priority (higher numbers win)")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "Add the repository disabled")
	cmd.Flags().StringVar(&username, "username", "", "Basic auth user name")
	cmd.Flags().StringVar(&password, "password", "", "Basic auth password")

	return cmd
}

func newRepoRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRepoRemove(args[0])
		},
	}

	return cmd
}

func newRepoListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured repositories",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRepoList()
		},
	}

	return cmd
}

func runRepoAdd(name, rawURL string, priority uint, enabled bool, username, password string) error {
	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}

	if err := cfg.AddRepository(name, rawURL, enabled); err != nil {
		return err
	}
	repo := cfg.GetRepository(name)
	repo.Priority = priority
	if username != "" || password != "" {
		repo.Auth = &config.AuthConfig{Basic: &config.BasicAuth{Username: username, Password: password}}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveConfig(getConfigPath()); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Repository added", logrus.Fields{"name": name, "url": rawURL})
	return nil
}

func runRepoRemove(name string) error {
	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}

	if !cfg.RemoveRepository(name) {
		return errors.ErrRepositoryNotFoundWithName(name)
	}
	if err := cfg.SaveConfig(getConfigPath()); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Repository removed", logrus.Fields{"name": name})
	return nil
}

func runRepoList() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	idx := loadIndexManager(cfg)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tURL\tPRIORITY\tSTATUS\tINDEX AGE")
	for _, repo := range cfg.Repositories {
		status := "enabled"
		if !repo.Enabled {
			status = "disabled"
		}
		age := "never synced"
		if d, err := idx.GetCacheAge(repo.Name); err == nil {
			age = d.Truncate(time.Second).String()
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", repo.Name, repo.URL, repo.Priority, status, age)
	}
	return tw.Flush()
}
