package cdp

import (
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"
)

func TestChromeArgs(t *testing.T) {
	tests := []struct {
		name     string
		headless bool
		want     []string
		notWant  []string
	}{
		{
			name:     "headless",
			headless: true,
			want:     []string{"--remote-debugging-port=9333", "--user-data-dir=/tmp/profile", "--allow-file-access-from-files", "--headless=new"},
		},
		{
			name:    "headful",
			want:    []string{"--remote-debugging-port=9333", "--allow-file-access-from-files"},
			notWant: []string{"--headless=new", "--hide-scrollbars"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := chromeArgs("9333", "/tmp/profile", tt.headless)
			for _, want := range tt.want {
				if !slices.Contains(args, want) {
					t.Errorf("expected %q in %v", want, args)
				}
			}
			for _, bad := range tt.notWant {
				if slices.Contains(args, bad) {
					t.Errorf("unexpected %q in %v", bad, args)
				}
			}
			// Chrome needs a page target before Wait can succeed
			if args[len(args)-1] != "about:blank" {
				t.Errorf("last arg = %q, want about:blank", args[len(args)-1])
			}
		})
	}
}

func TestChromeStop(t *testing.T) {
	t.Run("never started", func(t *testing.T) {
		c := &Chrome{cmd: &exec.Cmd{}}
		if err := c.Stop(); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})

	t.Run("removes profile", func(t *testing.T) {
		profile := filepath.Join(t.TempDir(), "profile")
		if err := os.MkdirAll(filepath.Join(profile, "Default"), 0o755); err != nil {
			t.Fatalf("failed to create profile: %v", err)
		}

		c := &Chrome{profile: profile}
		if err := c.Stop(); err != nil {
			t.Fatalf("Stop failed: %v", err)
		}
		if _, err := os.Stat(profile); !os.IsNotExist(err) {
			t.Errorf("profile still present, stat err = %v", err)
		}
	})
}

func TestFindChromeEnv(t *testing.T) {
	fake := filepath.Join(t.TempDir(), "my-chrome")
	if err := os.WriteFile(fake, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("failed to write fake binary: %v", err)
	}

	t.Setenv("CHROME_PATH", fake)
	if got := FindChrome(); got != fake {
		t.Errorf("FindChrome() = %q, want %q", got, fake)
	}

	// A directory or missing file is ignored
	t.Setenv("CHROME_PATH", t.TempDir())
	if got := FindChrome(); got == fake {
		t.Error("FindChrome() should ignore a CHROME_PATH that is a directory")
	}
}

func TestInstallPaths(t *testing.T) {
	t.Setenv("LOCALAPPDATA", `C:\Users\me\AppData\Local`)
	t.Setenv("PROGRAMFILES", "")
	t.Setenv("PROGRAMFILES(X86)", "")

	tests := []struct {
		goos  string
		count int
		first string
	}{
		{"darwin", 2, "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"},
		{"linux", 6, "/usr/bin/google-chrome-stable"},
		{"freebsd", 6, "/usr/bin/google-chrome-stable"},
		{"windows", 1, filepath.Join(`C:\Users\me\AppData\Local`, "Google", "Chrome", "Application", "chrome.exe")},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			paths := installPaths(tt.goos)
			if len(paths) != tt.count {
				t.Fatalf("got %d paths %v, want %d", len(paths), paths, tt.count)
			}
			if paths[0] != tt.first {
				t.Errorf("first path = %q, want %q", paths[0], tt.first)
			}
		})
	}
}
