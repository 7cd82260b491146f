package cli

// Default values for CLI flags and output formatting.
const (
	// MaxSearchSummaryLength is the maximum length of an app summary in search results.
	MaxSearchSummaryLength = 40
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
	// ProgressBarWidth is the width of download progress bars.
	ProgressBarWidth = 40
	// ProgressThrottle is the minimum delay between bar redraws, in milliseconds.
	ProgressThrottle = 100
	// setCommandArgs is the number of arguments expected by config set.
	setCommandArgs = 2
)
