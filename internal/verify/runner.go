package verify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ajsharma/verify_ui/internal/browser"
	"github.com/ajsharma/verify_ui/internal/config"
	"github.com/ajsharma/verify_ui/internal/events"
	"github.com/ajsharma/verify_ui/internal/fixture"
	"github.com/ajsharma/verify_ui/internal/monitor"
	"github.com/ajsharma/verify_ui/internal/report"
)

var (
	// ErrMissingGlobal is returned when the fixture page lacks a required
	// window function.
	ErrMissingGlobal = errors.New("fixture is missing global functions")

	// ErrReviewItems is returned when the review list does not hold the
	// expected number of checked rows.
	ErrReviewItems = errors.New("unexpected number of review items")
)

// Result describes a completed run.
type Result struct {
	FixtureURL  string
	Screenshots []string
	ReviewItems int
	Duration    time.Duration
}

// Runner executes a Plan against one page.
type Runner struct {
	cfg     *config.Config
	page    browser.Page
	report  *report.Writer
	console *monitor.ConsoleMonitor

	// wait blocks for the settle duration of a step.
	wait func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a Runner. console may be nil.
func NewRunner(cfg *config.Config, page browser.Page, w *report.Writer, console *monitor.ConsoleMonitor) *Runner {
	return &Runner{
		cfg:     cfg,
		page:    page,
		report:  w,
		console: console,
		wait:    settle,
	}
}

// Run loads fixtureURL and executes every step of the plan in order.
// The first failure ends the run.
func (r *Runner) Run(ctx context.Context, fixtureURL string) (*Result, error) {
	start := time.Now()
	result := &Result{FixtureURL: fixtureURL, ReviewItems: NoCheck}

	r.writeEvent(events.NewSessionStartEvent(config.Version, r.cfg.Engine, fixtureURL))

	err := r.run(ctx, fixtureURL, result)

	result.Duration = time.Since(start)
	r.writeEvent(events.NewSessionEndEvent(result.Duration.Seconds(), result.Screenshots, err))

	return result, err
}

func (r *Runner) run(ctx context.Context, fixtureURL string, result *Result) error {
	log.Printf("Loading %s", fixtureURL)
	r.writeEvent(events.NewPageNavigateEvent(fixtureURL))
	if err := r.page.Navigate(ctx, fixtureURL); err != nil {
		return fmt.Errorf("failed to load fixture: %w", err)
	}

	if err := r.checkGlobals(ctx); err != nil {
		return err
	}

	for _, step := range Plan(r.cfg) {
		if err := r.runStep(ctx, step, result); err != nil {
			return fmt.Errorf("step %s: %w", step.Name, err)
		}
	}

	return nil
}

// checkGlobals fails fast when the fixture does not expose the functions
// the steps call.
func (r *Runner) checkGlobals(ctx context.Context) error {
	var missing []string
	if err := r.page.Evaluate(ctx, fixture.GlobalsCheckScript, &missing); err != nil {
		return fmt.Errorf("failed to inspect fixture globals: %w", err)
	}

	r.writeEvent(events.NewGlobalsCheckEvent(fixture.RequiredGlobals, missing))

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingGlobal, strings.Join(missing, ", "))
	}
	return nil
}

func (r *Runner) runStep(ctx context.Context, step Step, result *Result) error {
	if r.console != nil {
		r.console.SetStep(step.Name)
	}
	log.Printf("Step %s: %s", step.Name, step.Description)

	r.writeEvent(events.NewEvaluateEvent(step.Name, len(step.Script)))
	if err := r.page.Evaluate(ctx, step.Script, nil); err != nil {
		return fmt.Errorf("script failed: %w", err)
	}

	if step.Settle > 0 {
		r.writeEvent(events.NewSettleEvent(step.Name, step.Settle))
		if err := r.wait(ctx, step.Settle); err != nil {
			return err
		}
	}

	if step.ExpectItems != NoCheck {
		count, err := r.countReviewItems(ctx)
		if err != nil {
			return err
		}
		result.ReviewItems = count
		r.writeEvent(events.NewReviewItemsEvent(step.Name, step.ExpectItems, count))

		if count != step.ExpectItems {
			return fmt.Errorf("%w: want %d, got %d", ErrReviewItems, step.ExpectItems, count)
		}
	}

	if step.Capture != "" {
		if err := r.capture(ctx, step); err != nil {
			return err
		}
		result.Screenshots = append(result.Screenshots, step.Capture)
	}

	return nil
}

func (r *Runner) countReviewItems(ctx context.Context) (int, error) {
	var count int
	if err := r.page.Evaluate(ctx, fixture.CountReviewItemsScript, &count); err != nil {
		return 0, fmt.Errorf("failed to count review items: %w", err)
	}
	return count, nil
}

func (r *Runner) capture(ctx context.Context, step Step) error {
	data, err := r.page.Screenshot(ctx)
	if err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(step.Capture), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(step.Capture, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.writeEvent(events.NewScreenshotEvent(step.Name, step.Capture, len(data)))
	log.Printf("Screenshot saved to %s", step.Capture)
	return nil
}

func (r *Runner) writeEvent(event *events.LogEvent) {
	if err := r.report.WriteEvent(event); err != nil {
		log.Printf("Warning: failed to write run log event: %v", err)
	}
}

// settle waits for d or until ctx is done.
func settle(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
