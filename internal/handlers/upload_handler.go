package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadBytes = 5 << 20

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

var errBadUpload = errors.New("upload must be a JPG, PNG, GIF or WEBP image under 5 MB")

// saveUpload stores the optional image in field under the upload dir and
// returns its public path. No file means "", nil.
func (h *Handlers) saveUpload(c *gin.Context, field string) (string, error) {
	// 1. Get the file from the request
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] || file.Size > maxUploadBytes {
		return "", errBadUpload
	}

	// 2. Create the upload directory if it doesn't exist
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	// 3. Generate a safe unique filename (uuid + extension)
	newFilename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, newFilename)); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}

	return "/uploads/" + newFilename, nil
}
