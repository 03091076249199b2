// Package cdp launches Chrome and locates its DevTools websocket.
package cdp

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// ErrChromeNotFound is returned when no Chrome executable can be located.
var ErrChromeNotFound = errors.New("chrome executable not found")

// Chrome is a browser process started with remote debugging on a fixed port.
type Chrome struct {
	cmd     *exec.Cmd
	profile string
}

// LaunchChrome starts Chrome with a throwaway profile and remote debugging on
// port. The caller must Stop it.
func LaunchChrome(port string, headless bool) (*Chrome, error) {
	bin := FindChrome()
	if bin == "" {
		return nil, ErrChromeNotFound
	}

	profile, err := os.MkdirTemp("", "verify_ui_chrome_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create profile dir: %w", err)
	}

	cmd := exec.Command(bin, chromeArgs(port, profile, headless)...)
	if err := cmd.Start(); err != nil {
		_ = os.RemoveAll(profile)
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return &Chrome{cmd: cmd, profile: profile}, nil
}

func chromeArgs(port, profile string, headless bool) []string {
	args := []string{
		"--remote-debugging-port=" + port,
		"--user-data-dir=" + profile,
		"--no-first-run",
		"--no-default-browser-check",
		"--disable-background-networking",
		"--disable-sync",
		// the fixture is loaded from file://
		"--allow-file-access-from-files",
	}
	if headless {
		args = append(args, "--headless=new", "--hide-scrollbars", "--mute-audio")
	}
	return append(args, "about:blank")
}

// Stop kills the process and removes its profile directory.
func (c *Chrome) Stop() error {
	var killErr error
	if c.cmd != nil && c.cmd.Process != nil {
		if err := c.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			killErr = fmt.Errorf("failed to kill chrome: %w", err)
		}
		_ = c.cmd.Wait()
	}

	if c.profile != "" {
		if err := os.RemoveAll(c.profile); err != nil && killErr == nil {
			return fmt.Errorf("failed to remove profile dir: %w", err)
		}
	}
	return killErr
}

// FindChrome returns the path of a Chrome binary, or "" when there is none.
// CHROME_PATH wins over the platform's install locations, which win over
// $PATH.
func FindChrome() string {
	if path := os.Getenv("CHROME_PATH"); path != "" && isFile(path) {
		return path
	}

	for _, path := range installPaths(runtime.GOOS) {
		if isFile(path) {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chrome", "headless-shell"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func installPaths(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	case "windows":
		var paths []string
		for _, env := range []string{"LOCALAPPDATA", "PROGRAMFILES", "PROGRAMFILES(X86)"} {
			if root := os.Getenv(env); root != "" {
				paths = append(paths, filepath.Join(root, "Google", "Chrome", "Application", "chrome.exe"))
			}
		}
		return paths
	default:
		return []string{
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/usr/bin/headless-shell",
			"/snap/bin/chromium",
		}
	}
}

func isFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
