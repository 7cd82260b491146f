package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/droidrepo/pkg/appdiff"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/inspector"
	"github.com/glorpus-work/droidrepo/pkg/logger"
	"github.com/glorpus-work/droidrepo/pkg/signature"
)

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify FILE",
		Short: "Check a package's signature",
		Long: `Compare the signing certificates of a package file with those of the
running application (settings.self_package). Exits with an error when they
differ.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runVerify(args[0])
		},
	}

	return cmd
}

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff FILE",
		Short: "Compare a package with the installed application",
		Long: `Classify a package file as new, an update of an installed application or
a reinstall over data left behind by an uninstalled one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runDiff(args[0])
		},
	}

	return cmd
}

func runVerify(path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	comp, err := loadComponents(cfg)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(errors.ErrFileNotFound, "%s", path)
	}
	res, err := comp.verifier.Verify(path)
	if err != nil {
		return err
	}

	if jsonOutput(cfg) {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		printVerification(path, res)
	}
	if !res.Match {
		return errors.Wrapf(errors.ErrSignatureMismatch, "%s", filepath.Base(path))
	}
	return nil
}

func printVerification(path string, res signature.Verification) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Package:\t%s\n", path)
	_, _ = fmt.Fprintf(tw, "Candidate signer:\t%s\n", orNone(res.CandidateHex))
	_, _ = fmt.Fprintf(tw, "Trusted signer:\t%s\n", orNone(res.SelfHex))
	_, _ = fmt.Fprintf(tw, "Match:\t%t\n", res.Match)
	_ = tw.Flush()
}

type diffReport struct {
	Package     string   `json:"package"`
	VersionCode int64    `json:"version_code"`
	VersionName string   `json:"version_name,omitempty"`
	State       string   `json:"state"`
	Installed   int64    `json:"installed_version_code,omitempty"`
	RenamedFrom string   `json:"renamed_from,omitempty"`
	Update      bool     `json:"update"`
	Permissions []string `json:"permissions,omitempty"`
}

func runDiff(path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	comp, err := loadComponents(cfg)
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidPath, err.Error())
	}
	diff, err := appdiff.New(comp.inspector, &url.URL{Scheme: "file", Path: abs})
	if err != nil {
		return err
	}

	report := newDiffReport(diff)
	if jsonOutput(cfg) {
		return printJSON(report)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Package:\t%s\n", report.Package)
	_, _ = fmt.Fprintf(tw, "Version:\t%s (%d)\n", report.VersionName, report.VersionCode)
	_, _ = fmt.Fprintf(tw, "State:\t%s\n", report.State)
	_, _ = fmt.Fprintf(tw, "Permissions:\t%s\n", describePermissions(diff.Package()))
	if report.Installed != 0 {
		_, _ = fmt.Fprintf(tw, "Installed version:\t%d\n", report.Installed)
	}
	if report.RenamedFrom != "" {
		_, _ = fmt.Fprintf(tw, "Renamed from:\t%s\n", report.RenamedFrom)
	}
	_ = tw.Flush()

	logger.Debug("Package classified", logrus.Fields{"package": report.Package, "state": report.State})
	return nil
}

func newDiffReport(diff *appdiff.Diff) diffReport {
	pkg := diff.Package()
	r := diffReport{
		Package:     pkg.PackageName,
		VersionCode: pkg.VersionCode,
		VersionName: pkg.VersionName,
		State:       diff.State().String(),
		Update:      diff.IsUpdate(),
		Permissions: pkg.Permissions,
	}
	if existing := diff.Existing(); existing != nil {
		r.Installed = existing.VersionCode
	}
	if declared, ok := diff.Renamed(); ok {
		r.RenamedFrom = declared
	}
	return r
}

// describePermissions renders a permission list for display.
func describePermissions(info *inspector.PackageInfo) string {
	if len(info.Permissions) == 0 {
		return "none"
	}
	return strings.Join(info.Permissions, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
