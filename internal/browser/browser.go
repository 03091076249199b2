// Package browser drives a single browser page for a verification run.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Engine names.
const (
	EngineChromedp = "chromedp"
	EngineRod      = "rod"
)

// Engines lists the engine names Open accepts.
var Engines = []string{EngineChromedp, EngineRod}

// LevelException is the ConsoleMessage level used for uncaught exceptions.
const LevelException = "exception"

var (
	// ErrUnknownEngine is returned by Open for an unsupported engine name.
	ErrUnknownEngine = errors.New("unknown browser engine")

	// ErrJSUndefined is returned when a script evaluates to undefined but a
	// result was requested.
	ErrJSUndefined = errors.New("script evaluated to undefined")

	// ErrScriptException is returned when an evaluated script throws.
	ErrScriptException = errors.New("script threw an exception")
)

// Page is one browser tab owned by a run.
type Page interface {
	// Navigate loads url and waits for the load event.
	Navigate(ctx context.Context, url string) error

	// Evaluate runs js in the page. When res is non-nil the result is
	// decoded into it; a nil res discards the result.
	Evaluate(ctx context.Context, js string, res any) error

	// Screenshot captures the page as PNG.
	Screenshot(ctx context.Context) ([]byte, error)

	// Close releases the page and the browser behind it.
	Close() error
}

// ConsoleMessage is a console API call or uncaught exception from the page.
type ConsoleMessage struct {
	Level string
	Text  string
	URL   string
	Line  int
}

// Options configures how the browser is obtained.
type Options struct {
	Engine   string
	Port     string // attach to Chrome on this debugging port when set
	Launch   bool   // launch Chrome on Port before attaching
	Headless bool
	Width    int
	Height   int
	FullPage bool

	OnConsole func(ConsoleMessage)
}

// Open starts (or attaches to) a browser and returns a fresh page.
func Open(ctx context.Context, opts Options) (Page, error) {
	switch opts.Engine {
	case EngineChromedp, "":
		p, err := openChromedp(ctx, opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	case EngineRod:
		p, err := openRod(ctx, opts)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, opts.Engine)
	}
}

// valueText renders a console argument. Strings are unquoted; other values
// keep their JSON form; values without one fall back to the description.
func valueText(raw []byte, description string) string {
	if (len(raw) == 0 || string(raw) == "null") && description != "" {
		return description
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}
