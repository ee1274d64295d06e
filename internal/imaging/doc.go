package imaging

// Package imaging decodes image sources into sequential frame readers and
// transforms frames for display: aspect-preserving fit sizing, quadrant
// rotation, and filtered resizing. Its Pipeline fans decoded frames out to a
// fixed pool of workers that transform each frame and store it into an
// Animation record without blocking the caller's event loop.
