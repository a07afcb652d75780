package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback for long-running CLI operations.
// A negative total means the amount of work is unknown.
type Reporter interface {
	Start(total int, description string)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set.
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

// TerminalReporter displays a progress bar, or a spinner for unknown totals.
type TerminalReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int, description string) {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionClearOnFinish(),
	}
	if total < 0 {
		opts = append(opts, progressbar.OptionSpinnerType(14))
	} else {
		opts = append(opts, progressbar.OptionSetWidth(40), progressbar.OptionShowCount())
	}
	r.bar = progressbar.NewOptions(total, opts...)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar == nil {
		return
	}
	if message != "" {
		r.bar.Describe(message)
	}
	if r.bar.GetMax() < 0 {
		_ = r.bar.Add(1)
		return
	}
	_ = r.bar.Set(current)
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	w     io.Writer
	total int
}

func (r *CIReporter) Start(total int, description string) {
	r.total = total
	fmt.Fprintln(r.w, description)
}

func (r *CIReporter) Update(current int, message string) {
	if message == "" {
		return
	}
	if r.total < 0 {
		fmt.Fprintln(r.w, message)
		return
	}
	fmt.Fprintf(r.w, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.w, "done")
}

// Spin starts an open-ended progress indicator on r, ticking every interval
// until the returned stop function is called. stop is safe to call twice.
func Spin(r Reporter, description string, interval time.Duration) (stop func()) {
	r.Start(-1, description)

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for i := 1; ; i++ {
			select {
			case <-done:
				return
			case <-ticker.C:
				r.Update(i, "")
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-finished
			r.Finish()
		})
	}
}
