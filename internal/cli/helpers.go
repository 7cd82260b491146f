package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/glorpus-work/droidrepo/pkg/config"
	"github.com/glorpus-work/droidrepo/pkg/database"
	"github.com/glorpus-work/droidrepo/pkg/download"
	"github.com/glorpus-work/droidrepo/pkg/index"
	"github.com/glorpus-work/droidrepo/pkg/inspector"
	"github.com/glorpus-work/droidrepo/pkg/installer"
	"github.com/glorpus-work/droidrepo/pkg/logger"
	"github.com/glorpus-work/droidrepo/pkg/orchestrator"
	"github.com/glorpus-work/droidrepo/pkg/signature"
)

// These variables will be set by the main package
var (
	ConfigPath   *string
	Verbose      *bool
	NoColor      *bool
	OutputFormat *string
)

// loadConfig reads the configuration file, applies environment overrides and
// CLI flags, and initializes the logger from the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if OutputFormat != nil && *OutputFormat != "" {
		cfg.Settings.OutputFormat = *OutputFormat
	}
	if Verbose != nil && *Verbose {
		cfg.Settings.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	noColor := NoColor != nil && *NoColor
	logger.InitLogger(cfg.Settings.LogLevel, noColor)
	return cfg, nil
}

// loadFileConfig reads the configuration file alone, for commands that write
// it back. Environment overrides must not end up in the file.
func loadFileConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.InitLogger(cfg.Settings.LogLevel, NoColor != nil && *NoColor)
	return cfg, nil
}

func getConfigPath() string {
	if ConfigPath != nil && *ConfigPath != "" {
		return *ConfigPath
	}

	defaultPath, err := config.GetDefaultConfigPath()
	if err != nil {
		logger.Warn("Failed to get default config path, using empty path", logrus.Fields{"error": err})
		return ""
	}
	return defaultPath
}

// loadSelector builds the downloader selector from the transport settings.
// Repository credentials come from the configuration itself.
func loadSelector(cfg *config.Config) (*download.Selector, error) {
	opts, err := cfg.TransportOptions()
	if err != nil {
		return nil, err
	}

	options := []download.SelectorOption{download.WithCredentials(cfg)}
	if cfg.Settings.ContentRoot != "" {
		options = append(options, download.WithContentResolver(download.TreeResolver{Root: cfg.Settings.ContentRoot}))
	}
	return download.NewSelector(opts, cfg.Settings.CacheDir, options...), nil
}

// loadIndexManager maps the configured repositories to index repositories.
func loadIndexManager(cfg *config.Config) *index.Manager {
	repos := make([]*index.Repository, 0, len(cfg.Repositories))
	for _, rc := range cfg.Repositories {
		repos = append(repos, &index.Repository{
			Name:     rc.Name,
			URL:      rc.GetURL(),
			Priority: int(rc.Priority),
			Enabled:  rc.Enabled,
		})
	}
	return index.NewManager(repos, cfg.GetIndexDir())
}

// components is everything a command touching installed applications needs.
type components struct {
	store     *database.Store
	inspector *inspector.ArchiveInspector
	verifier  *signature.Verifier
	installer *installer.Installer
}

func loadComponents(cfg *config.Config) (*components, error) {
	store, err := database.Open(cfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open application database: %w", err)
	}
	insp := inspector.NewArchiveInspector(store)
	return &components{
		store:     store,
		inspector: insp,
		verifier:  signature.NewVerifier(insp, cfg.Settings.SelfPackage),
		installer: installer.New(store, cfg.GetDatabasePath(), cfg.GetAppDir(), insp),
	}, nil
}

// loadOrchestrator wires the full install pipeline.
func loadOrchestrator(cfg *config.Config) (*orchestrator.Orchestrator, *components, error) {
	sel, err := loadSelector(cfg)
	if err != nil {
		return nil, nil, err
	}
	comp, err := loadComponents(cfg)
	if err != nil {
		return nil, nil, err
	}
	orch := &orchestrator.Orchestrator{
		Selector:  sel,
		Verifier:  comp.verifier,
		Inspector: comp.inspector,
		Installer: comp.installer,
		Index:     loadIndexManager(cfg),
		Hooks:     orchestrator.Hooks{OnEvent: logEvent},
	}
	return orch, comp, nil
}

func logEvent(e orchestrator.Event) {
	fields := logrus.Fields{"phase": string(e.Phase), "id": e.ID}
	if e.Session != "" {
		fields["session"] = e.Session
	}
	if e.Msg != "" {
		fields["msg"] = e.Msg
	}
	logger.Debug("Pipeline event", fields)
}

func jsonOutput(cfg *config.Config) bool {
	return cfg.Settings.OutputFormat == "json"
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
