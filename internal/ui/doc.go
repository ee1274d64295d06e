package ui

// Package ui contains the Fyne-based desktop user interface. It hosts the
// paint surface the viewer renders onto, wires keyboard, mouse and touch
// input to the viewer controller, and provides the settings dialog.
// All UI strings are localized via Localization.
