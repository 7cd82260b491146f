package cli

import (
	"net/url"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/droidrepo/pkg/appdiff"
	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/inspector"
	"github.com/glorpus-work/droidrepo/pkg/logger"
	"github.com/glorpus-work/droidrepo/pkg/signature"
)

// NewTrustCmd creates the trust command.
func NewTrustCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trust FILE",
		Short: "Register the running application's own package",
		Long: `Record FILE as the installed build of settings.self_package. Its signing
certificates become the signature every other package is verified against.
The file must declare the configured self package name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrust(cmd, args[0])
		},
	}

	return cmd
}

func runTrust(cmd *cobra.Command, path string) error {
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
	if name := diff.Package().PackageName; name != cfg.Settings.SelfPackage {
		return errors.Wrapf(errors.ErrConfiguration, "%s declares %s, expected %s", path, name, cfg.Settings.SelfPackage)
	}

	// Re-registering must keep the signer; only first registration is free.
	if diff.Existing() != nil {
		res, err := comp.verifier.Verify(abs)
		if err != nil {
			return err
		}
		if !res.Match {
			return errors.Wrapf(errors.ErrSignatureMismatch, "%s is signed by %s", path, res.CandidateHex)
		}
	}

	if err := comp.installer.Install(cmd.Context(), abs, diff); err != nil {
		return err
	}

	info, err := comp.inspector.GetApplicationInfo(cfg.Settings.SelfPackage, inspector.FlagSignatures)
	if err != nil {
		return err
	}
	logger.Success("Trusted signer registered", logrus.Fields{
		"package":     cfg.Settings.SelfPackage,
		"fingerprint": signature.Set(info.Signatures).Fingerprint(),
	})
	return nil
}
