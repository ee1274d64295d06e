package viewer

// Package viewer orchestrates image display: it resolves which file to show,
// dispatches between the static and animated paths, owns the bounded cache of
// loaded animations, manages in-flight display tasks so switching items
// cancels stale work, and drives the frame playback loop. It talks to the GUI
// through the narrow Surface and ProgressReporter collaborator interfaces and
// has no Fyne dependency of its own.
