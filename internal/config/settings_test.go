package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestSource(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetSource()
	if dir == "" {
		t.Error("Source directory should not be empty")
	}

	// Test setting custom value
	customDir := "/custom/pictures"
	settings.SetSource(customDir)

	retrievedDir := settings.GetSource()
	if retrievedDir != customDir {
		t.Errorf("Expected source directory %s, got %s", customDir, retrievedDir)
	}
}

func TestLoadingImage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	name := settings.GetLoadingImage()
	if name != DefaultLoadingImage {
		t.Errorf("Expected default loading image %s, got %s", DefaultLoadingImage, name)
	}

	// Test setting custom value
	settings.SetLoadingImage("Spinner.gif")

	retrievedName := settings.GetLoadingImage()
	if retrievedName != "Spinner.gif" {
		t.Errorf("Expected loading image 'Spinner.gif', got %s", retrievedName)
	}
}

func TestResourcePath(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Unset falls back to the executable directory
	path := settings.GetResourcePath()
	if path == "" {
		t.Error("Resource path should not be empty")
	}

	settings.SetResourcePath("/opt/viewer/assets")
	if got := settings.GetResourcePath(); got != "/opt/viewer/assets" {
		t.Errorf("Expected resource path /opt/viewer/assets, got %s", got)
	}
}

func TestSwitchIntervalMs(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	interval := settings.GetSwitchIntervalMs()
	if interval != DefaultSwitchIntervalMs {
		t.Errorf("Expected default switch interval %d, got %d", DefaultSwitchIntervalMs, interval)
	}

	// Test setting custom value
	settings.SetSwitchIntervalMs(250)

	retrieved := settings.GetSwitchIntervalMs()
	if retrieved != 250 {
		t.Errorf("Expected switch interval 250, got %d", retrieved)
	}

	// Test boundary values
	settings.SetSwitchIntervalMs(0) // Should be clamped to 1
	if settings.GetSwitchIntervalMs() != 1 {
		t.Error("Switch interval should be clamped to minimum 1")
	}
}

func TestCacheMaxBytes(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	size := settings.GetCacheMaxBytes()
	if size != DefaultCacheMaxBytes {
		t.Errorf("Expected default cache budget %d, got %d", int64(DefaultCacheMaxBytes), size)
	}

	// Test setting custom value
	settings.SetCacheMaxBytes(64 << 20)

	retrieved := settings.GetCacheMaxBytes()
	if retrieved != 64<<20 {
		t.Errorf("Expected cache budget %d, got %d", int64(64<<20), retrieved)
	}

	// Test boundary values
	settings.SetCacheMaxBytes(0) // Should be clamped to 1
	if settings.GetCacheMaxBytes() != 1 {
		t.Error("Cache budget should be clamped to minimum 1")
	}
}

func TestWindowSize(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	width, height := settings.GetWindowSize()
	if width != DefaultWindowWidth || height != DefaultWindowHeight {
		t.Errorf("Expected default window size %dx%d, got %dx%d",
			DefaultWindowWidth, DefaultWindowHeight, width, height)
	}

	// Test setting custom value
	settings.SetWindowSize(1280, 1024)

	width, height = settings.GetWindowSize()
	if width != 1280 || height != 1024 {
		t.Errorf("Expected window size 1280x1024, got %dx%d", width, height)
	}

	// Test boundary values
	settings.SetWindowSize(10, 10) // Should fall back to defaults
	width, height = settings.GetWindowSize()
	if width != DefaultWindowWidth || height != DefaultWindowHeight {
		t.Error("Tiny window size should fall back to defaults")
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	lang := settings.GetLanguage()
	if lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	// Test setting custom value
	settings.SetLanguage("en")

	retrievedLang := settings.GetLanguage()
	if retrievedLang != "en" {
		t.Errorf("Expected language 'en', got %s", retrievedLang)
	}
}

func TestOnSourceChanged(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	var got string
	settings.OnSourceChanged(func(dir string) { got = dir })

	settings.SetSource("/custom/pictures")

	if got != "/custom/pictures" {
		t.Errorf("Expected change listener to see /custom/pictures, got %q", got)
	}
}
