// Package errors holds the sentinel errors shared across droidrepo and small
// helpers for adding context while keeping errors.Is working.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
)

// Pipeline errors.
var (
	// ErrConfiguration is fatal and never retried: the destination file cannot be
	// created or the running application's own signature is unreadable.
	ErrConfiguration = fmt.Errorf("configuration error")

	// ErrTransport is a network I/O failure during a probe or a transfer.
	ErrTransport = fmt.Errorf("transport error")

	// ErrInterrupted is returned when the calling context is cancelled mid-transfer.
	ErrInterrupted = fmt.Errorf("download interrupted")

	// ErrPackageNotFound is returned when a candidate package cannot be opened.
	ErrPackageNotFound = fmt.Errorf("package not found")

	// ErrMalformedPackage is returned when package metadata cannot be parsed.
	ErrMalformedPackage = fmt.Errorf("malformed package")

	// ErrUnsupportedScheme is returned when no downloader can serve a URI.
	ErrUnsupportedScheme = fmt.Errorf("unsupported URI scheme")

	// ErrApplicationNotFound is returned by application lookups with no match.
	ErrApplicationNotFound = fmt.Errorf("application not found")

	// ErrSignatureMismatch blocks installation of a package with an unknown signer.
	ErrSignatureMismatch = fmt.Errorf("signature mismatch")
)

// Config errors.
var (
	ErrEmptyConfigPath   = fmt.Errorf("config file path cannot be empty")
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")
	ErrConfigEncode      = fmt.Errorf("failed to encode config")
	ErrConfigDirectory   = fmt.Errorf("failed to create config directory")
	ErrConfigFileCreate  = fmt.Errorf("failed to create config file")
	ErrConfigFileRename  = fmt.Errorf("failed to rename temporary config file")
	ErrConfigFileExists  = fmt.Errorf("configuration file already exists (use --force to overwrite)")

	ErrEmptyRepositoryName = fmt.Errorf("repository name cannot be empty")
	ErrRepositoryURLEmpty  = fmt.Errorf("repository URL cannot be empty")
	ErrRepositoryURL       = fmt.Errorf("invalid repository URL")
	ErrRepositoryExists    = fmt.Errorf("repository already exists")
	ErrRepositoryNotFound  = fmt.Errorf("repository not found")

	ErrHTTPTimeoutNegative  = fmt.Errorf("http_timeout cannot be negative")
	ErrMaxConcurrentInvalid = fmt.Errorf("max_concurrent_syncs must be at least 1")
	ErrInvalidSubnet        = fmt.Errorf("invalid swap subnet")
	ErrInvalidProxyURL      = fmt.Errorf("invalid proxy URL")
	ErrInvalidOutputFormat  = fmt.Errorf("invalid output format")
	ErrInvalidLogLevel      = fmt.Errorf("invalid log level")
)

// Filesystem errors.
var (
	ErrInvalidPath  = fmt.Errorf("invalid path")
	ErrFileNotFound = fmt.Errorf("file not found")
	ErrNotArchive   = fmt.Errorf("not an archive")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Interrupted converts a context error into ErrInterrupted while keeping the
// original cause reachable through errors.Is.
func Interrupted(cause error) error {
	if cause == nil {
		cause = context.Canceled
	}
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}

// Transport marks err as an ErrTransport with context.
func Transport(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", msg, ErrTransport, err)
}

// Invalid marks err as a configuration validation failure. Both
// ErrConfigValidation and the original cause stay matchable.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrConfigValidation, err)
}

// Is forwards to the standard library so callers need a single import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Join forwards to the standard library so callers need a single import.
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// As forwards to the standard library so callers need a single import.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// ErrEmptyRepositoryNameWithIndex is a helper to create a wrapped error with the repository position.
func ErrEmptyRepositoryNameWithIndex(i int) error {
	return fmt.Errorf("repository %d: %w", i, ErrEmptyRepositoryName)
}

// ErrRepositoryURLEmptyWithName is a helper to create a wrapped error with the repository name.
func ErrRepositoryURLEmptyWithName(name string) error {
	return fmt.Errorf("repository '%s': %w", name, ErrRepositoryURLEmpty)
}

// ErrRepositoryExistsWithName is a helper to create a wrapped error with the repository name.
func ErrRepositoryExistsWithName(name string) error {
	return fmt.Errorf("repository '%s': %w", name, ErrRepositoryExists)
}

// ErrRepositoryNotFoundWithName creates an error for when a repository with the given name is not found.
func ErrRepositoryNotFoundWithName(name string) error {
	return fmt.Errorf("%w: %s", ErrRepositoryNotFound, name)
}

// ErrInvalidOutputFormatWithDetails is a helper to create a wrapped error with the invalid format.
func ErrInvalidOutputFormatWithDetails(format string) error {
	return fmt.Errorf("%w: '%s', must be one of: text, json", ErrInvalidOutputFormat, format)
}

// ErrInvalidLogLevelWithDetails is a helper to create a wrapped error with the invalid level.
func ErrInvalidLogLevelWithDetails(level string) error {
	return fmt.Errorf("%w: '%s', must be one of: debug, info, warn, error", ErrInvalidLogLevel, level)
}
