package monitor

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ajsharma/verify_ui/internal/browser"
	"github.com/ajsharma/verify_ui/internal/events"
	"github.com/ajsharma/verify_ui/internal/report"
)

func TestConsoleMonitorHandle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	w := report.NewWriter(path)

	var buf bytes.Buffer
	m := NewConsoleMonitor(w, log.New(&buf, "", 0))

	m.Handle(browser.ConsoleMessage{Level: "log", Text: "[mock_ui] sidebar ready"})
	m.SetStep("review")
	m.Handle(browser.ConsoleMessage{Level: "warning", Text: "slow"})
	m.Handle(browser.ConsoleMessage{Level: "error", Text: "bad"})
	m.Handle(browser.ConsoleMessage{Level: browser.LevelException, Text: "TypeError: x is null", URL: "file:///ui.html", Line: 42})

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if m.Messages() != 4 {
		t.Errorf("Messages() = %d, want 4", m.Messages())
	}
	if m.Errors() != 2 {
		t.Errorf("Errors() = %d, want 2", m.Errors())
	}

	out := buf.String()
	for _, want := range []string{
		"[page] console.log: [mock_ui] sidebar ready",
		"[page] console.warning: slow",
		"[page] uncaught exception (file:///ui.html:42): TypeError: x is null",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read run log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 run log lines, got %d", len(lines))
	}

	expected := []struct {
		step      string
		eventType string
	}{
		{events.StepSession, events.EventConsoleLog},
		{"review", events.EventConsoleWarn},
		{"review", events.EventConsoleError},
		{"review", events.EventErrorRuntime},
	}
	for i, line := range lines {
		var event events.LogEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if event.Step != expected[i].step || event.EventType != expected[i].eventType {
			t.Errorf("line %d = %s/%s, want %s/%s", i, event.Step, event.EventType, expected[i].step, expected[i].eventType)
		}
	}
}

func TestConsoleMonitorDisabledReport(t *testing.T) {
	var buf bytes.Buffer
	m := NewConsoleMonitor(report.NewWriter(""), log.New(&buf, "", 0))

	m.Handle(browser.ConsoleMessage{Level: "info", Text: "hello"})

	if strings.Contains(buf.String(), "Warning") {
		t.Errorf("disabled run log should not produce warnings: %s", buf.String())
	}
	if m.Messages() != 1 || m.Errors() != 0 {
		t.Errorf("unexpected counts messages=%d errors=%d", m.Messages(), m.Errors())
	}
}

func TestConsoleMonitorConcurrent(t *testing.T) {
	var buf safeBuffer
	m := NewConsoleMonitor(report.NewWriter(""), log.New(&buf, "", 0))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Handle(browser.ConsoleMessage{Level: "error", Text: "x"})
		}()
	}
	wg.Wait()

	if m.Errors() != 20 {
		t.Errorf("Errors() = %d, want 20", m.Errors())
	}
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}
