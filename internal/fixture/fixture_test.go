package fixture

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMockUIHTML(t *testing.T) {
	if MockUIHTML == "" {
		t.Fatal("MockUIHTML should not be empty")
	}

	expectedStrings := []string{
		"<!DOCTYPE html>",
		"attachShadow({ mode: 'open' })",
		"host.id = '" + SidebarHostID + "'",
		`id="configView"`,
		`id="reviewView"`,
		`id="reviewList"`,
		".hidden { display: none !important; }",
		"window.openSidebar = function",
		"window.openConfig = function",
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(MockUIHTML, expected) {
			t.Errorf("MockUIHTML should contain %q", expected)
		}
	}
}

func TestMockUIHTMLDefinesRequiredGlobals(t *testing.T) {
	for _, name := range RequiredGlobals {
		if !strings.Contains(MockUIHTML, "window."+name+" = ") {
			t.Errorf("MockUIHTML does not define window.%s", name)
		}
	}
}

func TestFileURL(t *testing.T) {
	tests := []struct {
		name     string
		cwd      string
		path     string
		expected string
	}{
		{"relative", "/home/jules/project", "test/mock_ui.html", "file:///home/jules/project/test/mock_ui.html"},
		{"absolute ignores cwd", "/ignored", "/srv/ui.html", "file:///srv/ui.html"},
		{"dot segments cleaned", "/work", "./test/../test/mock_ui.html", "file:///work/test/mock_ui.html"},
		{"space escaped", "/my dir", "ui.html", "file:///my%20dir/ui.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FileURL(tt.cwd, tt.path); got != tt.expected {
				t.Errorf("FileURL(%q, %q) = %q, want %q", tt.cwd, tt.path, got, tt.expected)
			}
		})
	}
}

func TestWriteAndResolve(t *testing.T) {
	tmpDir := t.TempDir()
	rel := filepath.Join("test", "mock_ui.html")

	if _, err := Resolve(tmpDir, rel); !errors.Is(err, ErrFixtureNotFound) {
		t.Fatalf("Resolve before Write: expected ErrFixtureNotFound, got %v", err)
	}

	path := filepath.Join(tmpDir, rel)
	if err := Write(path, false); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	if string(content) != MockUIHTML {
		t.Error("written fixture does not match MockUIHTML")
	}

	abs, err := Resolve(tmpDir, rel)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if abs != path {
		t.Errorf("Resolve = %q, want %q", abs, path)
	}
}

func TestWriteRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock_ui.html")
	if err := os.WriteFile(path, []byte("custom"), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	if err := Write(path, false); !errors.Is(err, ErrFixtureExists) {
		t.Fatalf("expected ErrFixtureExists, got %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "custom" {
		t.Error("existing fixture was overwritten without force")
	}

	if err := Write(path, true); err != nil {
		t.Fatalf("forced Write failed: %v", err)
	}
	content, _ = os.ReadFile(path)
	if string(content) != MockUIHTML {
		t.Error("forced Write did not replace the fixture")
	}
}

func TestWriteStatError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	dir := filepath.Join(t.TempDir(), "locked")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.Chmod(dir, 0o000); err != nil {
		t.Fatalf("failed to lock dir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	err := Write(filepath.Join(dir, "mock_ui.html"), false)
	if err == nil {
		t.Fatal("expected error when the fixture path cannot be checked")
	}
	if errors.Is(err, ErrFixtureExists) {
		t.Errorf("stat failure should not be reported as an existing fixture: %v", err)
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("expected a permission error, got %v", err)
	}
}

func TestResolveDirectory(t *testing.T) {
	dir := t.TempDir()
	if _, err := Resolve(dir, "."); !errors.Is(err, ErrFixtureNotFound) {
		t.Errorf("expected ErrFixtureNotFound for a directory, got %v", err)
	}
}

func TestReviewViewScript(t *testing.T) {
	script := ReviewViewScript(3)

	expectedStrings := []string{
		`document.getElementById("recorder-sidebar-host")`,
		"getElementById('configView').classList.add('hidden')",
		"getElementById('reviewView').classList.remove('hidden')",
		"i < 3;",
		"item.className = 'review-item'",
		`item.setAttribute("data-mock-row", '')`,
		"item.style.padding = '10px'",
		"item.style.borderBottom = '1px solid #eee'",
		`'<input type="checkbox" checked> Item ' + (i + 1)`,
	}

	for _, expected := range expectedStrings {
		if !strings.Contains(script, expected) {
			t.Errorf("ReviewViewScript(3) should contain %q", expected)
		}
	}

	if !strings.HasPrefix(script, "(() => {") || !strings.HasSuffix(script, "})()") {
		t.Error("ReviewViewScript should be a self-invoking function")
	}
}

func TestGlobalsCheckScript(t *testing.T) {
	if !strings.Contains(GlobalsCheckScript, `["openSidebar", "openConfig"]`) {
		t.Errorf("GlobalsCheckScript does not list the required globals:\n%s", GlobalsCheckScript)
	}
}

func TestCountReviewItemsScript(t *testing.T) {
	if !strings.Contains(CountReviewItemsScript, `.review-item[data-mock-row] input[type="checkbox"]:checked`) {
		t.Error("CountReviewItemsScript should count only checked mock rows")
	}
	if !strings.Contains(ReviewViewScript(1), MockRowAttr) {
		t.Error("ReviewViewScript should mark the rows CountReviewItemsScript counts")
	}
	if !strings.Contains(CountReviewItemsScript, "return -1;") {
		t.Error("CountReviewItemsScript should report a missing sidebar")
	}
}
