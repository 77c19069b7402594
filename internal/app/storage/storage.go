// Package storage хранит фото заявок в MinIO или в локальном каталоге.
// В базе лежит только ключ объекта, в ответах API он превращается в URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("file not found")
	ErrUnsupportedType = errors.New("unsupported file type")
)

type PhotoStorage interface {
	Save(ctx context.Context, requestID uint, data []byte, originalFilename string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ContentType MIME-тип по расширению файла
func ContentType(filename string) string {
	if ct, ok := imageTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// objectKey requests/<id>/<uuid>_<unix><ext>, имя файла клиента не используется
func objectKey(requestID uint, originalFilename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	if _, ok := imageTypes[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	return fmt.Sprintf("requests/%d/%s_%d%s", requestID, uuid.New().String()[:8], time.Now().Unix(), ext), nil
}

func publicURL(base, key string) string {
	if key == "" || strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// validKey защищает локальное хранилище от выхода за каталог
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "" {
			return false
		}
	}
	return true
}
