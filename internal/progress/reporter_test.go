package progress

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter(&bytes.Buffer{}).(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter(&bytes.Buffer{}).(*TerminalReporter); !ok {
		t.Error("expected TerminalReporter outside CI")
	}
}

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{w: &buf}
	r.Start(2, "Syncing")
	r.Update(1, "first")
	r.Update(2, "")
	r.Finish()

	want := "Syncing\n[1/2] first\ndone\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTerminalReporterSpinner(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{w: &buf}
	r.Start(-1, "Fetching notifications")
	r.Update(1, "")
	r.Update(2, "still fetching")
	r.Finish()

	if buf.Len() == 0 {
		t.Error("spinner wrote nothing")
	}
}

type countingReporter struct {
	mu       sync.Mutex
	started  string
	updates  int
	finished int
}

func (c *countingReporter) Start(total int, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = description
}

func (c *countingReporter) Update(current int, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates++
}

func (c *countingReporter) Finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finished++
}

func TestSpin(t *testing.T) {
	r := &countingReporter{}
	stop := Spin(r, "Loading", time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	stop()
	stop()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started != "Loading" {
		t.Errorf("started = %q, want Loading", r.started)
	}
	if r.updates == 0 {
		t.Error("expected at least one tick")
	}
	if r.finished != 1 {
		t.Errorf("finished %d times, want 1", r.finished)
	}
}
