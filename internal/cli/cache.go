package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/droidrepo/pkg/cache"
)

// NewCacheCmd creates the cache command with subcommands
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the download cache",
		Long:  "Clean, show information about, and locate the index and package cache",
	}

	cmd.AddCommand(
		newCacheCleanCmd(),
		newCacheInfoCmd(),
		newCacheDirCmd(),
	)

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var options cache.CleanOptions

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the cache",
		Long:  "Remove cached files to free up disk space. Without flags everything is removed.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCacheClean(options)
		},
	}

	cmd.Flags().BoolVar(&options.All, "all", false, "Clean all cached files")
	cmd.Flags().BoolVar(&options.Indexes, "indexes", false, "Clean only repository indexes")
	cmd.Flags().BoolVar(&options.Packages, "packages", false, "Clean only downloaded packages")
	cmd.Flags().BoolVar(&options.Downloads, "downloads", false, "Clean only leftover temporary downloads")

	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show cache information",
		Long:  "Display information about the cache",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCacheInfo()
		},
	}

	return cmd
}

func newCacheDirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir",
		Short: "Show cache directory path",
		Long:  "Display the path to the cache directory",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCacheDir()
		},
	}

	return cmd
}

func loadCacheOperation() (*cache.Operation, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cache.NewOperation(cache.NewManager(cfg.Settings.CacheDir)), nil
}

func runCacheClean(options cache.CleanOptions) error {
	op, err := loadCacheOperation()
	if err != nil {
		return err
	}

	msg, err := op.Clean(options)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func runCacheInfo() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	manager := cache.NewManager(cfg.Settings.CacheDir)

	if jsonOutput(cfg) {
		info, err := manager.GetInfo()
		if err != nil {
			return err
		}
		return printJSON(info)
	}

	msg, err := cache.NewOperation(manager).GetInfo()
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func runCacheDir() error {
	op, err := loadCacheOperation()
	if err != nil {
		return err
	}

	fmt.Println(op.GetDirectory())
	return nil
}
