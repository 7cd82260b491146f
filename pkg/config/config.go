// Package config handles droidrepo's YAML configuration: the list of
// repositories with their credentials and the settings that shape transport,
// caching and output. Values can be overridden from the environment.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/droidrepo/pkg/errors"
	"github.com/glorpus-work/droidrepo/pkg/fsutil"
)

// Config represents the application configuration.
type Config struct {
	Repositories []*RepositoryConfig `yaml:"repositories"`
	Settings     Settings            `yaml:"settings"`
}

// RepositoryConfig represents a single repository.
type RepositoryConfig struct {
	Name     string      `yaml:"name"`
	URL      string      `yaml:"url"`
	Enabled  bool        `yaml:"enabled"`
	Priority uint        `yaml:"priority"`
	Auth     *AuthConfig `yaml:"auth,omitempty"`
}

// Settings represents general application settings.
type Settings struct {
	CacheDir string `yaml:"cache_dir,omitempty"`
	StateDir string `yaml:"state_dir,omitempty"`

	// Network settings
	HTTPTimeout            time.Duration `yaml:"http_timeout"`
	MaxConcurrent          int           `yaml:"max_concurrent_syncs"`
	UserAgent              string        `yaml:"user_agent,omitempty"`
	ProxyURL               string        `yaml:"proxy_url,omitempty"`
	SwapSubnet             string        `yaml:"swap_subnet,omitempty"`
	QueryString            string        `yaml:"query_string,omitempty"`
	LegacyIdentityEncoding bool          `yaml:"legacy_identity_encoding,omitempty"`

	// ContentRoot backs content:// URIs as <root>/<authority>/<path>.
	ContentRoot string `yaml:"content_root,omitempty"`

	// SelfPackage is the package whose signature candidates must match.
	SelfPackage string `yaml:"self_package,omitempty"`

	OutputFormat string `yaml:"output_format"` // text, json
	LogLevel     string `yaml:"log_level"`     // debug, info, warn, error
}

// Default configuration values.
const (
	// DefaultHTTPTimeout bounds connecting and waiting for response headers.
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultMaxConcurrent is the default number of repositories synced at once.
	DefaultMaxConcurrent = 4

	// DefaultSelfPackage is the package name droidrepo installs itself as.
	DefaultSelfPackage = "org.droidrepo.client"

	// YAMLIndent is the number of spaces to use for YAML indentation.
	YAMLIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	cacheDir, err := fsutil.GetCacheDir()
	if err != nil {
		cacheDir = filepath.Join(os.TempDir(), fsutil.AppName, "cache")
	}
	stateDir, err := fsutil.GetStateDir()
	if err != nil {
		stateDir = filepath.Join(os.TempDir(), fsutil.AppName, "state")
	}

	return &Config{
		Repositories: []*RepositoryConfig{},
		Settings: Settings{
			CacheDir:      cacheDir,
			StateDir:      stateDir,
			HTTPTimeout:   DefaultHTTPTimeout,
			MaxConcurrent: DefaultMaxConcurrent,
			SelfPackage:   DefaultSelfPackage,
			OutputFormat:  "text",
			LogLevel:      "info",
		},
	}
}

// LoadConfig loads configuration from a file. A missing file yields the
// default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, errors.Invalid(err)
	}

	return &config, nil
}

// SaveConfig writes the configuration atomically through a temporary file.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}

	// credentials may be stored here
	tempPath := absPath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeSecure)
	if err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}

	_ = encoder.Close()
	_ = file.Close()

	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(errors.ErrConfigFileRename, err.Error())
	}

	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return data, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateRepositories(c.Repositories); err != nil {
		return err
	}
	return validateSettings(c.Settings)
}

func validateRepositories(repos []*RepositoryConfig) error {
	repoNames := make(map[string]bool)
	for i, repo := range repos {
		if repo.Name == "" {
			return errors.ErrEmptyRepositoryNameWithIndex(i)
		}
		if repo.URL == "" {
			return errors.ErrRepositoryURLEmptyWithName(repo.Name)
		}
		if repo.GetURL() == nil {
			return errors.Wrapf(errors.ErrRepositoryURL, "repository '%s'", repo.Name)
		}
		if repoNames[repo.Name] {
			return errors.ErrRepositoryExistsWithName(repo.Name)
		}
		repoNames[repo.Name] = true
	}
	return nil
}

func validateSettings(s Settings) error {
	if s.HTTPTimeout < 0 {
		return errors.ErrHTTPTimeoutNegative
	}
	if s.MaxConcurrent < 1 {
		return errors.ErrMaxConcurrentInvalid
	}
	if _, err := s.parseSubnet(); err != nil {
		return err
	}
	if _, err := s.parseProxy(); err != nil {
		return err
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[s.OutputFormat] {
		return errors.ErrInvalidOutputFormatWithDetails(s.OutputFormat)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(s.LogLevel)] {
		return errors.ErrInvalidLogLevelWithDetails(s.LogLevel)
	}
	return nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, fsutil.AppName, "config.yaml"), nil
}

// AddRepository adds a repository to the configuration.
// Returns an error if a repository with the same name already exists.
func (c *Config) AddRepository(name, url string, enabled bool) error {
	for _, repo := range c.Repositories {
		if repo.Name == name {
			return errors.ErrRepositoryExistsWithName(name)
		}
	}

	c.Repositories = append(c.Repositories, &RepositoryConfig{
		Name:    name,
		URL:     url,
		Enabled: enabled,
	})
	return nil
}

// RemoveRepository removes a repository from the configuration.
func (c *Config) RemoveRepository(name string) bool {
	for i, repo := range c.Repositories {
		if repo.Name == name {
			c.Repositories = append(c.Repositories[:i], c.Repositories[i+1:]...)
			return true
		}
	}
	return false
}

// GetRepository gets a repository configuration by name.
func (c *Config) GetRepository(name string) *RepositoryConfig {
	for _, repo := range c.Repositories {
		if repo.Name == name {
			return repo
		}
	}
	return nil
}

// EnabledRepositories returns the enabled repositories in declaration order.
func (c *Config) EnabledRepositories() []*RepositoryConfig {
	var out []*RepositoryConfig
	for _, repo := range c.Repositories {
		if repo.Enabled {
			out = append(out, repo)
		}
	}
	return out
}

// GetDatabasePath returns the path to the installed applications database.
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Settings.StateDir, "installed.json")
}

// GetAppDir returns the directory installed packages are copied into.
func (c *Config) GetAppDir() string {
	return filepath.Join(c.Settings.StateDir, "apps")
}

// GetIndexDir returns the path to the repository index cache directory.
func (c *Config) GetIndexDir() string {
	return filepath.Join(c.Settings.CacheDir, "indexes")
}

// GetPackageCacheDir returns the path to the downloaded package directory.
func (c *Config) GetPackageCacheDir() string {
	return filepath.Join(c.Settings.CacheDir, "packages")
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.MaxConcurrent == 0 {
		c.Settings.MaxConcurrent = defaults.Settings.MaxConcurrent
	}
	if c.Settings.OutputFormat == "" {
		c.Settings.OutputFormat = defaults.Settings.OutputFormat
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Settings.CacheDir == "" {
		c.Settings.CacheDir = defaults.Settings.CacheDir
	}
	if c.Settings.StateDir == "" {
		c.Settings.StateDir = defaults.Settings.StateDir
	}
	if c.Settings.SelfPackage == "" {
		c.Settings.SelfPackage = defaults.Settings.SelfPackage
	}
	if c.Repositories == nil {
		c.Repositories = []*RepositoryConfig{}
	}
}
