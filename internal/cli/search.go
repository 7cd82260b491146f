package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/droidrepo/pkg/index"
	"github.com/glorpus-work/droidrepo/pkg/logger"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search for packages",
		Long: `Search the synchronized indexes of all enabled repositories. The query is
matched case-insensitively against package names, display names and
summaries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runSearch(args[0])
		},
	}

	return cmd
}

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show the available builds of a package",
		Long:  "List every build of a package offered by the enabled repositories",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runShow(args[0])
		},
	}

	return cmd
}

type searchHit struct {
	Repository string `json:"repository"`
	Package    string `json:"package"`
	Name       string `json:"name,omitempty"`
	Version    string `json:"version,omitempty"`
	Summary    string `json:"summary,omitempty"`
}

func runSearch(query string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	idx := loadIndexManager(cfg)

	var hits []searchHit
	for _, repo := range idx.ListRepositories() {
		if !repo.Enabled {
			continue
		}
		repoIndex, err := idx.GetIndex(repo.Name)
		if err != nil {
			logger.Warn("Repository index unavailable, run sync first", logrus.Fields{"repository": repo.Name})
			continue
		}
		for _, app := range repoIndex.Search(query) {
			hit := searchHit{Repository: repo.Name, Package: app.PackageName, Name: app.Name, Summary: app.Summary}
			if latest := repoIndex.Latest(app.PackageName); latest != nil {
				hit.Version = latest.VersionName
			}
			hits = append(hits, hit)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Package < hits[j].Package })

	if jsonOutput(cfg) {
		return printJSON(hits)
	}
	if len(hits) == 0 {
		fmt.Printf("No packages found matching '%s'\n", query)
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PACKAGE NAME\tVERSION\tREPOSITORY\tSUMMARY")
	for _, h := range hits {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", h.Package, h.Version, h.Repository, truncate(h.Summary, MaxSearchSummaryLength))
	}
	_ = tw.Flush()

	fmt.Printf("\nFound %d package(s) matching '%s'\n", len(hits), query)
	return nil
}

func runShow(name string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	idx := loadIndexManager(cfg)

	found, err := idx.FindPackages(name)
	if err != nil {
		return err
	}
	if jsonOutput(cfg) {
		return printJSON(found)
	}

	repoNames := make([]string, 0, len(found))
	for repoName := range found {
		repoNames = append(repoNames, repoName)
	}
	sort.Strings(repoNames)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, TabWidth, ' ', 0)
	_, _ = fmt.Fprintln(tw, "REPOSITORY\tVERSION\tCODE\tSIZE\tADDED")
	for _, repoName := range repoNames {
		builds := append([]*index.Package(nil), found[repoName]...)
		sort.Slice(builds, func(i, j int) bool { return builds[i].Newer(builds[j]) })
		for _, pkg := range builds {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", repoName, pkg.VersionName, pkg.VersionCode, pkg.Size, formatAdded(pkg.Added))
		}
	}
	return tw.Flush()
}

func formatAdded(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
