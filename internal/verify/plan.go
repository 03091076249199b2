// Package verify runs the sidebar screenshot sequence against the mock UI.
package verify

import (
	"time"

	"github.com/ajsharma/verify_ui/internal/config"
	"github.com/ajsharma/verify_ui/internal/fixture"
)

// Step names.
const (
	StepSidebar = "sidebar"
	StepConfig  = "config"
	StepReview  = "review"
)

// NoCheck disables the review item check of a step.
const NoCheck = -1

// Step is one state change of the run.
type Step struct {
	Name        string
	Description string
	Script      string
	Settle      time.Duration // wait after Script; zero means none
	Capture     string        // screenshot path; empty means none
	ExpectItems int           // checked review rows expected after Script, or NoCheck
}

// Plan returns the ordered steps of a run for cfg.
func Plan(cfg *config.Config) []Step {
	return []Step{
		{
			Name:        StepSidebar,
			Description: "open the sidebar",
			Script:      fixture.OpenSidebarScript,
			ExpectItems: NoCheck,
		},
		{
			Name:        StepConfig,
			Description: "show the configuration view",
			Script:      fixture.OpenConfigScript,
			Settle:      cfg.Settle,
			Capture:     cfg.ConfigShotPath(),
			ExpectItems: NoCheck,
		},
		{
			Name:        StepReview,
			Description: "show the review view with mock items",
			Script:      fixture.ReviewViewScript(cfg.ReviewItems),
			Settle:      cfg.Settle,
			Capture:     cfg.ReviewShotPath(),
			ExpectItems: cfg.ReviewItems,
		},
	}
}
