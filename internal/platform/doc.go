package platform

// Package platform contains OS/filesystem integration: scanning source
// directories for displayable images, exporting edited images, and file
// removal with the directory bookkeeping the viewer relies on.
