// verify_ui captures screenshots of the recorder sidebar's mock UI states.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ajsharma/verify_ui/internal/config"
	"github.com/ajsharma/verify_ui/internal/fixture"
	"github.com/ajsharma/verify_ui/internal/verify"
)

var (
	cfg        = config.DefaultConfig()
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "verify_ui",
	Short: "Screenshot the recorder sidebar mock UI",
	Long: `verify_ui loads the mock recorder UI in a headless browser, switches the
sidebar into its configuration and review views, and saves one screenshot
of each for visual verification.

Example:
  # Run against test/mock_ui.html in the current directory
  verify_ui

  # Write the screenshots somewhere else, using go-rod
  verify_ui --output-dir ./shots --engine rod

  # Reuse a Chrome started with --remote-debugging-port=9222
  verify_ui --port 9222`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              run,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"YAML config file (flags override its values)")
	rootCmd.PersistentFlags().StringVar(&cfg.FixturePath, "fixture", cfg.FixturePath,
		"Mock UI page, relative to the working directory")

	// Output flags
	rootCmd.PersistentFlags().StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir,
		"Directory for screenshots")
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigShotName, "config-shot", cfg.ConfigShotName,
		"File name of the configuration view screenshot")
	rootCmd.PersistentFlags().StringVar(&cfg.ReviewShotName, "review-shot", cfg.ReviewShotName,
		"File name of the review view screenshot")
	rootCmd.Flags().BoolVar(&cfg.FullPage, "full-page", cfg.FullPage,
		"Capture the full scrollable page")
	rootCmd.Flags().StringVar(&cfg.RunLogPath, "run-log", cfg.RunLogPath,
		"Write a JSONL run log to this path")

	// Sequence flags
	rootCmd.PersistentFlags().DurationVar(&cfg.Settle, "settle", cfg.Settle,
		"Wait after each state change")
	rootCmd.PersistentFlags().IntVar(&cfg.ReviewItems, "review-items", cfg.ReviewItems,
		"Number of mock review items")
	rootCmd.Flags().DurationVarP(&cfg.Timeout, "timeout", "t", cfg.Timeout,
		"Overall run timeout")

	// Browser flags
	rootCmd.Flags().StringVar(&cfg.Engine, "engine", cfg.Engine,
		"Browser driver (chromedp or rod)")
	rootCmd.Flags().StringVarP(&cfg.ChromePort, "port", "p", cfg.ChromePort,
		"Attach to Chrome on this remote debugging port")
	rootCmd.Flags().BoolVar(&cfg.AutoLaunch, "launch", cfg.AutoLaunch,
		"Launch Chrome with debugging enabled on --port")
	rootCmd.Flags().BoolVar(&cfg.Headless, "headless", cfg.Headless,
		"Run launched browsers headless")
	rootCmd.Flags().IntVar(&cfg.Width, "width", cfg.Width,
		"Viewport width")
	rootCmd.Flags().IntVar(&cfg.Height, "height", cfg.Height,
		"Viewport height")

	rootCmd.Version = config.Version

	fixtureCmd.Flags().Bool("force", false, "Overwrite an existing fixture")

	rootCmd.AddCommand(fixtureCmd)
	rootCmd.AddCommand(planCmd)
}

var fixtureCmd = &cobra.Command{
	Use:   "fixture",
	Short: "Write the mock UI page to the fixture path",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		path := cfg.FixturePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		if err := fixture.Write(path, force); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Fixture written to: %s\n", path)
		return nil
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the steps a run would execute",
	RunE: func(cmd *cobra.Command, args []string) error {
		printPlan(cmd.OutOrStdout(), cfg)
		return nil
	},
}

// loadConfig applies --config. Flags set on the command line win over the
// file.
func loadConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return nil
	}

	loaded, err := config.LoadFromFile(configFile)
	if err != nil {
		return err
	}

	changed := map[string]string{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	*cfg = *loaded

	for name, value := range changed {
		if err := cmd.Flags().Set(name, value); err != nil {
			return fmt.Errorf("failed to reapply --%s: %w", name, err)
		}
	}
	return nil
}

func printPlan(w io.Writer, cfg *config.Config) {
	for i, step := range verify.Plan(cfg) {
		fmt.Fprintf(w, "%d. %-8s %s\n", i+1, step.Name, step.Description)
		if step.Settle > 0 {
			fmt.Fprintf(w, "   wait %s\n", step.Settle)
		}
		if step.ExpectItems != verify.NoCheck {
			fmt.Fprintf(w, "   expect %d checked items\n", step.ExpectItems)
		}
		if step.Capture != "" {
			fmt.Fprintf(w, "   capture %s\n", step.Capture)
		}
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	// Setup signal handling
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			log.Println("\nReceived shutdown signal...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Print startup info
	log.Printf("verify_ui %s", config.Version)
	log.Printf("Engine: %s", cfg.Engine)
	log.Printf("Output directory: %s", cfg.OutputDir)
	switch {
	case cfg.AutoLaunch:
		log.Printf("Launching Chrome on port %s...", cfg.ChromePort)
	case cfg.ChromePort != "":
		log.Printf("Connecting to Chrome on port %s...", cfg.ChromePort)
	}

	result, err := verify.Execute(ctx, cfg, cwd)
	if err != nil {
		return err
	}

	log.Printf("Captured %d screenshot(s) in %s", len(result.Screenshots), result.Duration.Round(time.Millisecond))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
