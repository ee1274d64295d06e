package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconDelete   = "🗑️"
	IconSave     = "💾"
	IconRotate   = "↻"
)

// Text fragments
const (
	WindowTitleFormat  = "Images - %s (%d, %d)"
	LoadingLabelFormat = "Loading… %d frames"
)

// Layout sizing
const (
	SurfaceMinWidth  float32 = 200
	SurfaceMinHeight float32 = 200

	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 360
)

// NavRegionFraction is the share of the surface width on each edge that acts
// as a previous/next click target.
const NavRegionFraction float32 = 1.0 / 8.0

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 300
	ToastHeight   float32 = 120
	ToastMargin   float32 = 20
	ToastAutoHide         = 5 * time.Second
)
