package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// SaveImage stores an uploaded image from the named multipart field under dir
// and returns the stored filename. Files are keyed by UUID so concurrent
// uploads of the same original name never overwrite each other.
//
// A missing file or a disallowed extension returns an empty name with no
// error; callers fall back to the previous or placeholder image.
func SaveImage(c *fiber.Ctx, field, dir string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil || fileHeader == nil || fileHeader.Filename == "" {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	if err := c.SaveFile(fileHeader, filepath.Join(dir, name)); err != nil {
		return "", err
	}

	return name, nil
}
