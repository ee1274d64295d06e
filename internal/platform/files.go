package platform

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// JPEG export quality
const (
	JPEGQuality = 90
)

// ImageExtensions are the file extensions the viewer displays.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".ico":  true,
}

// IsImageFile reports whether path carries a displayable image extension.
func IsImageFile(path string) bool {
	return ImageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ListImages returns the sorted file names (not full paths) of displayable
// images directly inside dir. Subdirectories and other files are skipped; an
// unreadable directory yields an empty listing.
func ListImages(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsImageFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// RemoveFile deletes the file at path.
func RemoveFile(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// CreateDirectoryIfNotExists creates the directory (and parents) when it
// does not exist yet.
func CreateDirectoryIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, DefaultDirPermissions)
	}
	return nil
}

// SaveImage encodes img to target. A target without an extension inherits
// fallbackExt, so exports keep the source container by default. The encoder
// is chosen by the resulting extension.
func SaveImage(img image.Image, target, fallbackExt string) error {
	if filepath.Ext(target) == "" && fallbackExt != "" {
		target += fallbackExt
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(target)) {
	case ".png":
		err = png.Encode(f, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: JPEGQuality})
	case ".gif":
		err = gif.Encode(f, img, nil)
	default:
		err = fmt.Errorf("no encoder for extension %q", filepath.Ext(target))
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", target, err)
	}
	return nil
}
