package cli

import (
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/droidrepo/pkg/download"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/logger"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	var (
		dest   string
		sha256 string
	)

	cmd := &cobra.Command{
		Use:   "fetch URI",
		Short: "Download a single resource",
		Long: `Download a resource from an http(s), file, content or bluetooth URI.

Without --dest the resource is written to a temporary file in the cache
directory. An interrupted HTTP transfer resumes when run again with the same
destination.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args[0], dest, sha256)
		},
	}

	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Destination file (default: temporary file)")
	cmd.Flags().StringVar(&sha256, "sha256", "", "Expected SHA-256 of the result")

	return cmd
}

func runFetch(cmd *cobra.Command, rawURL, dest, sum string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sel, err := loadSelector(cfg)
	if err != nil {
		return err
	}

	bar := newProgressBar(filepath.Base(rawURL))
	defer bar.Finish()
	opts := []download.RequestOption{download.WithProgress(bar.Func(jsonOutput(cfg)))}

	var d download.Downloader
	if dest == "" {
		d, err = sel.SelectTemp(rawURL, opts...)
	} else {
		var uri *url.URL
		uri, err = url.Parse(rawURL)
		if err != nil {
			return errors.Wrapf(errors.ErrRepositoryURL, "%s: %v", rawURL, err)
		}
		d, err = sel.Select(uri, dest, opts...)
	}
	if err != nil {
		return err
	}

	logger.Debug("Fetching", logrus.Fields{"url": rawURL, "kind": d.Kind().String(), "dest": d.Request().Dest})
	result, err := d.Download(cmd.Context())
	if err != nil {
		return err
	}
	if !result.Fetched() {
		return fmt.Errorf("%s: %s: %w", rawURL, result.Outcome, errors.ErrPackageNotFound)
	}

	path := d.Request().Dest
	if sum != "" {
		ok, err := download.VerifySHA256(path, sum)
		if err != nil {
			return err
		}
		if !ok {
			return errors.Wrapf(errors.ErrMalformedPackage, "checksum mismatch for %s", path)
		}
	}

	if jsonOutput(cfg) {
		return printJSON(map[string]interface{}{
			"path":    path,
			"outcome": result.Outcome.String(),
			"bytes":   result.BytesWritten,
		})
	}
	logger.Success("Download finished", logrus.Fields{"path": path, "outcome": result.Outcome.String()})
	return nil
}
