package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/zhwaweb/zhwaweb-admin/internal/storage"
	"github.com/zhwaweb/zhwaweb-admin/pkg/logger"
)

var (
	ErrInvalidFileType = errors.New("file type not allowed")
	ErrFileTooLarge    = errors.New("file too large")
)

type UploadResult struct {
	Filename string
	URL      string
	Size     int64
}

type UploadService interface {
	UploadImage(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*UploadResult, error)
}

type uploadService struct {
	storage      storage.ImageStorage
	maxSize      int64
	allowedTypes map[string]struct{}
}

// NewUploadService accepts extensions with or without a leading dot.
func NewUploadService(store storage.ImageStorage, maxSize int64, allowedTypes []string) UploadService {
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, ext := range allowedTypes {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}
	return &uploadService{
		storage:      store,
		maxSize:      maxSize,
		allowedTypes: allowed,
	}
}

func (s *uploadService) UploadImage(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*UploadResult, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := s.allowedTypes[ext]; !ok {
		logger.Warn("Upload rejected: file type", map[string]interface{}{
			"filename": filename,
		})
		return nil, ErrInvalidFileType
	}
	if s.maxSize > 0 && size > s.maxSize {
		logger.Warn("Upload rejected: file too large", map[string]interface{}{
			"filename": filename,
			"size":     size,
		})
		return nil, ErrFileTooLarge
	}

	name := strings.ReplaceAll(uuid.New().String(), "-", "") + "." + ext
	if err := s.storage.Save(ctx, name, r, size, contentType); err != nil {
		logger.Error("Failed to store upload", err, map[string]interface{}{
			"filename": filename,
		})
		return nil, err
	}

	logger.Info("Image uploaded", map[string]interface{}{
		"filename": name,
		"size":     size,
	})
	return &UploadResult{
		Filename: name,
		URL:      s.storage.URL(name),
		Size:     size,
	}, nil
}
