// Package monitor reports page console output during a verification run.
package monitor

import (
	"log"
	"sync"

	"github.com/ajsharma/verify_ui/internal/browser"
	"github.com/ajsharma/verify_ui/internal/events"
	"github.com/ajsharma/verify_ui/internal/report"
)

// ConsoleMonitor forwards page console messages to the process log and the
// run log, attributing each one to the step that was running.
type ConsoleMonitor struct {
	report *report.Writer
	logger *log.Logger

	mu       sync.Mutex
	step     string
	messages int
	errors   int
}

// NewConsoleMonitor creates a monitor writing to w. A nil logger uses the
// standard logger.
func NewConsoleMonitor(w *report.Writer, logger *log.Logger) *ConsoleMonitor {
	if logger == nil {
		logger = log.Default()
	}
	return &ConsoleMonitor{
		report: w,
		logger: logger,
		step:   events.StepSession,
	}
}

// SetStep records which step subsequent messages belong to.
func (m *ConsoleMonitor) SetStep(step string) {
	m.mu.Lock()
	m.step = step
	m.mu.Unlock()
}

// Handle processes one console message. It is safe for concurrent use and
// is meant to be passed as browser.Options.OnConsole.
func (m *ConsoleMonitor) Handle(msg browser.ConsoleMessage) {
	m.mu.Lock()
	step := m.step
	m.messages++
	isError := msg.Level == browser.LevelException || msg.Level == "error" || msg.Level == "assert"
	if isError {
		m.errors++
	}
	m.mu.Unlock()

	var event *events.LogEvent
	if msg.Level == browser.LevelException {
		m.logger.Printf("[page] uncaught exception (%s:%d): %s", msg.URL, msg.Line, msg.Text)
		event = events.NewRuntimeErrorEvent(step, msg.Text, msg.URL, msg.Line)
	} else {
		m.logger.Printf("[page] console.%s: %s", msg.Level, msg.Text)
		event = events.NewConsoleEvent(step, msg.Level, msg.Text)
	}

	if err := m.report.WriteEvent(event); err != nil {
		m.logger.Printf("Warning: failed to write console event: %v", err)
	}
}

// Messages returns the number of console messages seen.
func (m *ConsoleMonitor) Messages() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages
}

// Errors returns the number of console errors and uncaught exceptions seen.
func (m *ConsoleMonitor) Errors() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errors
}
