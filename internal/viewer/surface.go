package viewer

import "image"

// Surface is the rendering collaborator the controller paints onto. Paint
// replaces the currently displayed bitmap. Implementations must be safe to
// call from any goroutine; the Fyne front-end marshals onto its event loop.
type Surface interface {
	// Size returns the current viewport dimensions in pixels.
	Size() (width, height int)

	// Paint replaces the displayed bitmap.
	Paint(img image.Image)
}

// ProgressReporter is the fallback loading indicator used while an animation
// streams in and no loading gif asset is available.
type ProgressReporter interface {
	Start()
	Step()
	Done()
}

// Confirmer asks the user a blocking yes/no question.
type Confirmer func(message string) bool
