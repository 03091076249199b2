package verify

import (
	"context"
	"fmt"
	"log"

	"github.com/ajsharma/verify_ui/internal/browser"
	"github.com/ajsharma/verify_ui/internal/config"
	"github.com/ajsharma/verify_ui/internal/fixture"
	"github.com/ajsharma/verify_ui/internal/monitor"
	"github.com/ajsharma/verify_ui/internal/report"
)

// Execute performs a complete run: resolve the fixture relative to cwd,
// open a browser, execute the plan and release the browser.
func Execute(ctx context.Context, cfg *config.Config, cwd string) (*Result, error) {
	path, err := fixture.Resolve(cwd, cfg.FixturePath)
	if err != nil {
		return nil, err
	}
	fixtureURL := fixture.FileURL(cwd, path)

	w := report.NewWriter(cfg.RunLogPath)
	defer func() {
		if err := w.Close(); err != nil {
			log.Printf("Error closing run log: %v", err)
		}
	}()

	console := monitor.NewConsoleMonitor(w, nil)

	page, err := browser.Open(ctx, BrowserOptions(cfg, console.Handle))
	if err != nil {
		return nil, fmt.Errorf("failed to open browser: %w", err)
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Printf("Error closing browser: %v", err)
		}
	}()

	result, err := NewRunner(cfg, page, w, console).Run(ctx, fixtureURL)
	if errs := console.Errors(); errs > 0 {
		log.Printf("Page reported %d console error(s)", errs)
	}
	return result, err
}

// BrowserOptions maps cfg onto browser options.
func BrowserOptions(cfg *config.Config, onConsole func(browser.ConsoleMessage)) browser.Options {
	return browser.Options{
		Engine:    cfg.Engine,
		Port:      cfg.ChromePort,
		Launch:    cfg.AutoLaunch,
		Headless:  cfg.Headless,
		Width:     cfg.Width,
		Height:    cfg.Height,
		FullPage:  cfg.FullPage,
		OnConsole: onConsole,
	}
}
