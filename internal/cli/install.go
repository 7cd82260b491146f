package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/droidrepo/pkg/database"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/logger"
	"github.com/glorpus-work/droidrepo/pkg/orchestrator"
)

// NewInstallCmd creates the install command.
func NewInstallCmd() *cobra.Command {
	var (
		version        string
		file           string
		allowDowngrade bool
	)

	cmd := &cobra.Command{
		Use:   "install NAME",
		Short: "Install a package",
		Long: `Resolve a package in the synchronized indexes, download it, verify its
signature against the running application and record it as installed.

With --file a local package file is installed instead and NAME is ignored.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" && file == "" {
				return fmt.Errorf("package name or --file is required: %w", errors.ErrConfiguration)
			}
			return runInstall(cmd, name, version, file, allowDowngrade)
		},
	}

	cmd.Flags().StringVar(&version, "version", "", "Version constraint, e.g. \">= 1.2\"")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Install a local package file")
	cmd.Flags().BoolVar(&allowDowngrade, "allow-downgrade", false, "Replace a newer installed version")

	return cmd
}

// NewUninstallCmd creates the uninstall command.
func NewUninstallCmd() *cobra.Command {
	var keepData bool

	cmd := &cobra.Command{
		Use:   "uninstall NAME",
		Short: "Uninstall a package",
		Long: `Remove an installed package. With --keep-data the application entry is
kept as a data-only remnant, so a later install of the same package is
classified as a reinstall.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runUninstall(args[0], keepData)
		},
	}

	cmd.Flags().BoolVar(&keepData, "keep-data", false, "Keep application data")

	return cmd
}

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var (
		nameFilter string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Long: `List installed packages from the application database.

Use --all to include data-only remnants of uninstalled packages and --name to
filter by a partial package name.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runList(nameFilter, all)
		},
	}

	cmd.Flags().StringVar(&nameFilter, "name", "", "Filter packages by name (partial match)")
	cmd.Flags().BoolVar(&all, "all", false, "Include uninstalled packages that kept their data")

	return cmd
}

func runInstall(cmd *cobra.Command, name, version, file string, allowDowngrade bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	orch, comp, err := loadOrchestrator(cfg)
	if err != nil {
		return err
	}
	comp.installer.AllowDowngrade = allowDowngrade

	bar := newProgressBar(name)

	var decision *orchestrator.InstallDecision
	if file != "" {
		abs, err := filepath.Abs(file)
		if err != nil {
			return errors.Wrap(errors.ErrInvalidPath, err.Error())
		}
		if _, err := os.Stat(abs); err != nil {
			return errors.Wrapf(errors.ErrFileNotFound, "%s", file)
		}
		decision, err = orch.FetchAndVerify(cmd.Context(), &url.URL{Scheme: "file", Path: abs}, orchestrator.FetchOptions{
			Dest: filepath.Join(cfg.GetPackageCacheDir(), filepath.Base(abs)),
		})
		if err != nil {
			return err
		}
	} else {
		decision, err = orch.Prepare(cmd.Context(), name, version, cfg.GetPackageCacheDir(), bar.Func(jsonOutput(cfg)))
		if err != nil {
			return fmt.Errorf("failed to prepare %s: %w", name, err)
		}
	}
	bar.Finish()

	pkg := decision.Diff.Package()
	logger.Info("Installing package", logrus.Fields{
		"package":     pkg.PackageName,
		"version":     pkg.VersionName,
		"state":       decision.Diff.State().String(),
		"permissions": describePermissions(pkg),
	})

	if err := orch.Install(cmd.Context(), decision); err != nil {
		return fmt.Errorf("failed to install %s: %w", pkg.PackageName, err)
	}
	if jsonOutput(cfg) {
		return printJSON(newDiffReport(decision.Diff))
	}
	return nil
}

func runUninstall(name string, keepData bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	comp, err := loadComponents(cfg)
	if err != nil {
		return err
	}

	if err := comp.installer.Uninstall(name, keepData); err != nil {
		return fmt.Errorf("failed to uninstall %s: %w", name, err)
	}
	logger.Success("Package uninstalled", logrus.Fields{"package": name, "keep_data": keepData})
	return nil
}

func runList(nameFilter string, all bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := database.Open(cfg.GetDatabasePath())
	if err != nil {
		return fmt.Errorf("failed to load application database: %w", err)
	}

	var apps []*database.ApplicationInfo
	for _, app := range store.List() {
		if !all && !app.Installed() {
			continue
		}
		if nameFilter != "" && !strings.Contains(strings.ToLower(app.PackageName), strings.ToLower(nameFilter)) {
			continue
		}
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].PackageName < apps[j].PackageName })

	if jsonOutput(cfg) {
		return printJSON(apps)
	}
	if len(apps) == 0 {
		fmt.Println("No packages installed")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PACKAGE NAME\tVERSION\tCODE\tSTATUS")
	for _, app := range apps {
		status := "installed"
		if !app.Installed() {
			status = "data only"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", app.PackageName, app.VersionName, app.VersionCode, status)
	}
	return tw.Flush()
}
