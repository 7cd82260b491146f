package config

import (
	"github.com/spf13/viper"

	"github.com/glorpus-work/droidrepo/pkg/errors"
)

// EnvPrefix prefixes every environment override, e.g. DROIDREPO_LOG_LEVEL.
const EnvPrefix = "DROIDREPO"

// ApplyEnv overrides settings from DROIDREPO_* environment variables and
// validates the result.
func (c *Config) ApplyEnv() error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)

	textKeys := map[string]*string{
		"cache_dir":     &c.Settings.CacheDir,
		"state_dir":     &c.Settings.StateDir,
		"user_agent":    &c.Settings.UserAgent,
		"proxy_url":     &c.Settings.ProxyURL,
		"swap_subnet":   &c.Settings.SwapSubnet,
		"query_string":  &c.Settings.QueryString,
		"self_package":  &c.Settings.SelfPackage,
		"content_root":  &c.Settings.ContentRoot,
		"output_format": &c.Settings.OutputFormat,
		"log_level":     &c.Settings.LogLevel,
	}
	for key, dst := range textKeys {
		_ = v.BindEnv(key)
		if v.IsSet(key) {
			*dst = v.GetString(key)
		}
	}

	for _, key := range []string{"http_timeout", "max_concurrent_syncs", "legacy_identity_encoding"} {
		_ = v.BindEnv(key)
	}
	if v.IsSet("http_timeout") {
		c.Settings.HTTPTimeout = v.GetDuration("http_timeout")
	}
	if v.IsSet("max_concurrent_syncs") {
		c.Settings.MaxConcurrent = v.GetInt("max_concurrent_syncs")
	}
	if v.IsSet("legacy_identity_encoding") {
		c.Settings.LegacyIdentityEncoding = v.GetBool("legacy_identity_encoding")
	}

	if err := c.Validate(); err != nil {
		return errors.Invalid(err)
	}
	return nil
}
