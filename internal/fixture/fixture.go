// Package fixture provides the mock UI page and the scripts injected into it.
package fixture

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// ErrFixtureNotFound is returned when the fixture file does not exist.
var ErrFixtureNotFound = errors.New("fixture not found")

// ErrFixtureExists is returned by Write when the target exists and force is off.
var ErrFixtureExists = errors.New("fixture already exists")

// Resolve returns the absolute fixture path and checks that it exists.
// Relative paths are taken relative to cwd.
func Resolve(cwd, path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(cwd, path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrFixtureNotFound, abs)
		}
		return "", fmt.Errorf("failed to stat fixture: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrFixtureNotFound, abs)
	}

	return abs, nil
}

// FileURL builds the file:// URL of a fixture path.
func FileURL(cwd, path string) string {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(cwd, path)
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

// Write stores MockUIHTML at path, creating parent directories.
func Write(path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", ErrFixtureExists, path)
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("failed to check fixture: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create fixture directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(MockUIHTML), 0o644); err != nil {
		return fmt.Errorf("failed to write fixture: %w", err)
	}

	return nil
}
