package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// MaxUploadSize caps accepted images at 5 MiB.
const MaxUploadSize = 5 * 1024 * 1024

// Canonical types as http.DetectContentType reports them. The declared
// header is normalized before lookup, so a client sending image/jpg is
// still accepted.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// sniffImageType reads the leading bytes of the upload and returns the
// detected content type. Declared headers are easy to spoof, so the file
// content has the final say.
func sniffImageType(file io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)

	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	return http.DetectContentType(buf[:n]), nil
}

func Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}

	if fileHeader.Size > MaxUploadSize {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "File too large. Maximum size is 5MB"})
		return
	}

	declaredType := fileHeader.Header.Get("Content-Type")
	if declaredType == "image/jpg" {
		declaredType = "image/jpeg"
	}

	if !allowedImageTypes[declaredType] {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed. Use JPEG, PNG, WebP or GIF"})
		return
	}

	file, err := fileHeader.Open()

	if err != nil {
		slog.Error("failed to open uploaded file", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}
	defer file.Close()

	detectedType, err := sniffImageType(file)

	if err != nil || !allowedImageTypes[detectedType] {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "File content does not match an allowed image type"})
		return
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		slog.Error("failed to create upload directory", "error", err, "dir", cfg.UploadDir)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	sanitized := unsafeFilenameChars.ReplaceAllString(filepath.Base(fileHeader.Filename), "_")
	filename := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitized)

	dst, err := os.Create(filepath.Join(cfg.UploadDir, filename))

	if err != nil {
		slog.Error("failed to create file", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		slog.Error("failed to write file", "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"imageUrl": UploadURLPrefix + filename,
	})
}
