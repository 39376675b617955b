package app

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/packsmith/packsmith/pkg/sync"
	"github.com/packsmith/packsmith/pkg/types"
)

var (
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
)

// DownloadProgress renders fetch progress as a terminal bar. It implements
// sync.Progress; the bar library serializes concurrent Add calls.
type DownloadProgress struct {
	bar *progressbar.ProgressBar
}

func NewDownloadProgress() *DownloadProgress {
	return &DownloadProgress{}
}

func (p *DownloadProgress) Start(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Downloading files"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (p *DownloadProgress) Advance(types.PackFile) {
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

func (p *DownloadProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// PrintWarnings writes sync warnings to stderr in yellow, one per line.
func PrintWarnings(warnings []sync.Warning) {
	for _, w := range warnings {
		warnColor.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

// PrintError writes an error to stderr in red.
func PrintError(err error) {
	errorColor.Fprintln(os.Stderr, fmt.Sprintf("Error: %v", err))
}
