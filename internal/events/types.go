// Package events defines the run log event types.
package events

import (
	"time"
)

// LogEvent represents a single logged event in JSONL format.
type LogEvent struct {
	Timestamp string                 `json:"timestamp"`
	SessionID string                 `json:"session_id"`
	Step      string                 `json:"step"`
	EventType string                 `json:"event_type"`
	Data      map[string]interface{} `json:"data"`
}

// NewLogEvent creates a new LogEvent with the current timestamp.
// The session id is filled in by the writer.
func NewLogEvent(step, eventType string, data map[string]interface{}) *LogEvent {
	return &LogEvent{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Step:      step,
		EventType: eventType,
		Data:      data,
	}
}

// StepSession is the step name for events that belong to the whole run.
const StepSession = "_session"

// Event type constants for meta events.
const (
	EventMetaSessionStart = "meta.session_start"
	EventMetaSessionEnd   = "meta.session_end"
)

// Event type constants for run steps.
const (
	EventPageNavigate    = "page.navigate"
	EventStepEvaluate    = "step.evaluate"
	EventStepSettle      = "step.settle"
	EventStepScreenshot  = "step.screenshot"
	EventCheckGlobals    = "check.globals"
	EventCheckReviewItem = "check.review_items"
)

// Event type constants for page console events.
const (
	EventConsoleLog     = "console.log"
	EventConsoleWarn    = "console.warn"
	EventConsoleInfo    = "console.info"
	EventConsoleError   = "console.error"
	EventConsoleDebug   = "console.debug"
	EventConsoleVerbose = "console.verbose"
)

// EventErrorRuntime is logged for uncaught exceptions in the page.
const EventErrorRuntime = "error.runtime"

// ConsoleEventType maps a console API level to its event type.
func ConsoleEventType(level string) string {
	switch level {
	case "warning", "warn":
		return EventConsoleWarn
	case "info":
		return EventConsoleInfo
	case "error", "assert":
		return EventConsoleError
	case "debug":
		return EventConsoleDebug
	case "verbose", "trace":
		return EventConsoleVerbose
	default:
		return EventConsoleLog
	}
}

// NewSessionStartEvent creates a meta.session_start event.
func NewSessionStartEvent(version, engine, fixtureURL string) *LogEvent {
	return NewLogEvent(StepSession, EventMetaSessionStart, map[string]interface{}{
		"verify_ui_version": version,
		"engine":            engine,
		"fixture_url":       fixtureURL,
		"start_time":        time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// NewSessionEndEvent creates a meta.session_end event.
func NewSessionEndEvent(durationSeconds float64, screenshots []string, runErr error) *LogEvent {
	data := map[string]interface{}{
		"duration_seconds": durationSeconds,
		"screenshots":      screenshots,
		"success":          runErr == nil,
	}
	if runErr != nil {
		data["error"] = runErr.Error()
	}
	return NewLogEvent(StepSession, EventMetaSessionEnd, data)
}

// NewPageNavigateEvent creates a page.navigate event.
func NewPageNavigateEvent(url string) *LogEvent {
	return NewLogEvent(StepSession, EventPageNavigate, map[string]interface{}{
		"url": url,
	})
}

// NewGlobalsCheckEvent creates a check.globals event.
func NewGlobalsCheckEvent(required, missing []string) *LogEvent {
	return NewLogEvent(StepSession, EventCheckGlobals, map[string]interface{}{
		"required": required,
		"missing":  missing,
	})
}

// NewEvaluateEvent creates a step.evaluate event.
func NewEvaluateEvent(step string, scriptBytes int) *LogEvent {
	return NewLogEvent(step, EventStepEvaluate, map[string]interface{}{
		"script_bytes": scriptBytes,
	})
}

// NewSettleEvent creates a step.settle event.
func NewSettleEvent(step string, d time.Duration) *LogEvent {
	return NewLogEvent(step, EventStepSettle, map[string]interface{}{
		"duration_ms": d.Milliseconds(),
	})
}

// NewScreenshotEvent creates a step.screenshot event.
func NewScreenshotEvent(step, path string, size int) *LogEvent {
	return NewLogEvent(step, EventStepScreenshot, map[string]interface{}{
		"path":  path,
		"bytes": size,
	})
}

// NewReviewItemsEvent creates a check.review_items event.
func NewReviewItemsEvent(step string, expected, actual int) *LogEvent {
	return NewLogEvent(step, EventCheckReviewItem, map[string]interface{}{
		"expected": expected,
		"actual":   actual,
	})
}

// NewConsoleEvent creates a console.* event.
func NewConsoleEvent(step, level, text string) *LogEvent {
	return NewLogEvent(step, ConsoleEventType(level), map[string]interface{}{
		"level": level,
		"text":  text,
	})
}

// NewRuntimeErrorEvent creates an error.runtime event.
func NewRuntimeErrorEvent(step, text, url string, line int) *LogEvent {
	return NewLogEvent(step, EventErrorRuntime, map[string]interface{}{
		"text": text,
		"url":  url,
		"line": line,
	})
}
