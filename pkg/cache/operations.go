package cache

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/glorpus-work/droidrepo/pkg/logger"
)

// Operation renders cache management results for the command line.
type Operation struct {
	manager Manager
}

// NewOperation wraps manager.
func NewOperation(manager Manager) *Operation {
	return &Operation{manager: manager}
}

type area struct {
	name  string
	files int
	size  int64
}

// Clean cleans the cache and describes what was freed per area.
func (op *Operation) Clean(options CleanOptions) (string, error) {
	logger.Debug("Cleaning cache", logrus.Fields{
		"directory": op.manager.GetDirectory(),
		"all":       options.All,
		"indexes":   options.Indexes,
		"packages":  options.Packages,
		"downloads": options.Downloads,
	})

	result, err := op.manager.Clean(options)
	if err != nil {
		return "", err
	}
	if result.TotalFreed == 0 {
		return "Cache already clean.", nil
	}

	var freed []area
	for _, a := range []area{
		{name: "indexes", size: result.IndexFreed},
		{name: "packages", size: result.PackageFreed},
		{name: "downloads", size: result.DownloadFreed},
	} {
		if a.size > 0 {
			freed = append(freed, a)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Freed %s\n", formatBytes(result.TotalFreed))
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, a := range freed {
		_, _ = fmt.Fprintf(tw, "  %s\t%s\n", a.name, formatBytes(a.size))
	}
	_ = tw.Flush()
	return strings.TrimRight(b.String(), "\n"), nil
}

// GetInfo describes the cache content per area.
func (op *Operation) GetInfo() (string, error) {
	info, err := op.manager.GetInfo()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Cache directory: %s\n", info.Directory)
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	_, _ = fmt.Fprintln(tw, "AREA\tFILES\tSIZE\t")
	for _, a := range []area{
		{name: "indexes", files: info.IndexFiles, size: info.IndexSize},
		{name: "packages", files: info.PackageFiles, size: info.PackageSize},
		{name: "downloads", files: info.DownloadFiles, size: info.DownloadSize},
	} {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t\n", a.name, a.files, formatBytes(a.size))
	}
	_, _ = fmt.Fprintf(tw, "total\t%d\t%s\t\n", info.IndexFiles+info.PackageFiles+info.DownloadFiles, formatBytes(info.TotalSize))
	_ = tw.Flush()

	lastCleaned := "never"
	if !info.LastCleaned.IsZero() {
		lastCleaned = info.LastCleaned.Format(time.RFC1123)
	}
	fmt.Fprintf(&b, "Last cleaned: %s", lastCleaned)
	return b.String(), nil
}

// GetDirectory returns the cache directory path.
func (op *Operation) GetDirectory() string {
	return op.manager.GetDirectory()
}

// formatBytes renders a size with binary units.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	units := "KMGTPE"
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < len(units)-1; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), units[exp])
}
