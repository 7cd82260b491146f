package cli

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/droidrepo/pkg/config"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/logger"
)

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Inspect and edit the configuration file. Keys are the YAML names under
settings, e.g. http_timeout or self_package. Environment overrides are shown
by show and get but never written back by set.`,
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			Args:  cobra.NoArgs,
			RunE:  func(_ *cobra.Command, _ []string) error { return runConfigShow() },
		},
		&cobra.Command{
			Use:   "get KEY",
			Short: "Print one setting",
			Args:  cobra.ExactArgs(1),
			RunE:  func(_ *cobra.Command, args []string) error { return runConfigGet(args[0]) },
		},
		&cobra.Command{
			Use:   "set KEY VALUE",
			Short: "Change one setting in the configuration file",
			Args:  cobra.ExactArgs(setCommandArgs),
			RunE:  func(_ *cobra.Command, args []string) error { return runConfigSet(args[0], args[1]) },
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file location",
			Args:  cobra.NoArgs,
			Run:   func(_ *cobra.Command, _ []string) { fmt.Println(getConfigPath()) },
		},
		initCmd,
	)

	return cmd
}

type configView struct {
	Path         string            `json:"path"`
	Settings     map[string]string `json:"settings"`
	Repositories []repoView        `json:"repositories"`
}

type repoView struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Enabled  bool   `json:"enabled"`
	Priority uint   `json:"priority"`
	Auth     bool   `json:"auth"`
}

func newConfigView(path string, cfg *config.Config) configView {
	view := configView{Path: path, Settings: cfg.ToMap(), Repositories: []repoView{}}
	for _, r := range cfg.Repositories {
		view.Repositories = append(view.Repositories, repoView{
			Name:     r.Name,
			URL:      r.URL,
			Enabled:  r.Enabled,
			Priority: r.Priority,
			Auth:     r.Auth != nil,
		})
	}
	return view
}

func runConfigShow() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	view := newConfigView(getConfigPath(), cfg)
	if jsonOutput(cfg) {
		return printJSON(view)
	}

	fmt.Printf("# %s\n", view.Path)
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	for _, key := range slices.Sorted(maps.Keys(view.Settings)) {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", key, orNone(view.Settings[key]))
	}
	_ = tw.Flush()

	if len(view.Repositories) == 0 {
		return nil
	}
	fmt.Println()
	tw = tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "REPOSITORY\tURL\tENABLED\tPRIORITY")
	for _, r := range view.Repositories {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t%d\n", r.Name, r.URL, r.Enabled, r.Priority)
	}
	return tw.Flush()
}

func runConfigGet(key string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	value, err := cfg.GetValue(key)
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func runConfigSet(key, value string) error {
	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	if err := cfg.SetValue(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveConfig(getConfigPath()); err != nil {
		return errors.Wrapf(err, "failed to save configuration")
	}

	logger.Success("Configuration updated", logrus.Fields{"key": key, "value": value})
	return nil
}

func runConfigInit(force bool) error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil && !force {
		return errors.Wrapf(errors.ErrConfigFileExists, "%s (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().SaveConfig(path); err != nil {
		return errors.Wrapf(err, "failed to write default configuration")
	}

	logger.Success("Configuration file created", logrus.Fields{"path": path})
	return nil
}
