package cli

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/glorpus-work/droidrepo/pkg/download"
)

// progressBar adapts a terminal progress bar to download.ProgressFunc. The
// bar is created on the first report, once the total is known.
type progressBar struct {
	description string
	bar         *progressbar.ProgressBar
}

func newProgressBar(description string) *progressBar {
	return &progressBar{description: description}
}

// Func returns the callback to hand to a downloader, or nil when output is
// machine-readable.
func (p *progressBar) Func(quiet bool) download.ProgressFunc {
	if quiet {
		return nil
	}
	return p.report
}

func (p *progressBar) report(written, total int64) {
	if p.bar == nil {
		p.bar = progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription(p.description),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(ProgressBarWidth),
			progressbar.OptionThrottle(ProgressThrottle*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	_ = p.bar.Set64(written)
}

// Finish clears the bar if one was drawn.
func (p *progressBar) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
