package config

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeySource           = "source"
	KeyResourcePath     = "resource_path"
	KeyLoadingImage     = "loading_image"
	KeySwitchIntervalMs = "switch_interval_ms"
	KeyCacheMaxBytes    = "cache_max_bytes"
	KeyWindowWidth      = "window_width"
	KeyWindowHeight     = "window_height"
	KeyLanguage         = "app_language"
)

// Default values
const (
	DefaultLoadingImage     = "Loading.gif"
	DefaultSwitchIntervalMs = 140
	DefaultCacheMaxBytes    = 1 << 30
	DefaultWindowWidth      = 900
	DefaultWindowHeight     = 700
	DefaultLanguage         = "system"
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetSource returns the configured image directory
func (s *Settings) GetSource() string {
	dir := s.app.Preferences().String(KeySource)
	if dir == "" {
		defaultDir, err := os.UserHomeDir()
		if err != nil {
			defaultDir = "."
		}
		s.SetSource(defaultDir)
		return defaultDir
	}
	return dir
}

// SetSource sets the image directory
func (s *Settings) SetSource(dir string) {
	s.app.Preferences().SetString(KeySource, dir)
}

// OnSourceChanged registers fn to run whenever any preference changes; fn
// receives the current source directory. Fyne only reports that something
// changed, so callers must treat repeated values as no-ops.
func (s *Settings) OnSourceChanged(fn func(string)) {
	s.app.Preferences().AddChangeListener(func() {
		fn(s.app.Preferences().String(KeySource))
	})
}

// GetResourcePath returns the directory holding bundled assets such as the
// loading animation
func (s *Settings) GetResourcePath() string {
	path := s.app.Preferences().String(KeyResourcePath)
	if path == "" {
		exe, err := os.Executable()
		if err != nil {
			return "."
		}
		return filepath.Dir(exe)
	}
	return path
}

// SetResourcePath sets the asset directory
func (s *Settings) SetResourcePath(path string) {
	s.app.Preferences().SetString(KeyResourcePath, path)
}

// GetLoadingImage returns the filename of the loading animation
func (s *Settings) GetLoadingImage() string {
	name := s.app.Preferences().String(KeyLoadingImage)
	if name == "" {
		s.SetLoadingImage(DefaultLoadingImage)
		return DefaultLoadingImage
	}
	return name
}

// SetLoadingImage sets the filename of the loading animation
func (s *Settings) SetLoadingImage(name string) {
	s.app.Preferences().SetString(KeyLoadingImage, name)
}

// GetSwitchIntervalMs returns the minimum interval between image switches
// in milliseconds
func (s *Settings) GetSwitchIntervalMs() int {
	value := s.app.Preferences().Int(KeySwitchIntervalMs)
	if value <= 0 {
		s.SetSwitchIntervalMs(DefaultSwitchIntervalMs)
		return DefaultSwitchIntervalMs
	}
	return value
}

// SetSwitchIntervalMs sets the minimum interval between image switches
func (s *Settings) SetSwitchIntervalMs(ms int) {
	if ms < 1 {
		ms = 1
	}
	s.app.Preferences().SetInt(KeySwitchIntervalMs, ms)
}

// GetCacheMaxBytes returns the animation cache budget in bytes
func (s *Settings) GetCacheMaxBytes() int64 {
	value := s.app.Preferences().Int(KeyCacheMaxBytes)
	if value <= 0 {
		return DefaultCacheMaxBytes
	}
	return int64(value)
}

// SetCacheMaxBytes sets the animation cache budget in bytes
func (s *Settings) SetCacheMaxBytes(size int64) {
	if size < 1 {
		size = 1
	}
	s.app.Preferences().SetInt(KeyCacheMaxBytes, int(size))
}

// GetWindowSize returns the stored window dimensions
func (s *Settings) GetWindowSize() (width, height int) {
	width = s.app.Preferences().IntWithFallback(KeyWindowWidth, DefaultWindowWidth)
	height = s.app.Preferences().IntWithFallback(KeyWindowHeight, DefaultWindowHeight)
	if width < 100 {
		width = DefaultWindowWidth
	}
	if height < 100 {
		height = DefaultWindowHeight
	}
	return width, height
}

// SetWindowSize stores the window dimensions
func (s *Settings) SetWindowSize(width, height int) {
	s.app.Preferences().SetInt(KeyWindowWidth, width)
	s.app.Preferences().SetInt(KeyWindowHeight, height)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}
