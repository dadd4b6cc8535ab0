package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zhwaweb/zhwaweb-admin/internal/app/service"
	apperrors "github.com/zhwaweb/zhwaweb-admin/internal/errors"
	"github.com/zhwaweb/zhwaweb-admin/internal/middleware"
)

type UploadController struct {
	uploadService service.UploadService
}

func NewUploadController(uploadService service.UploadService) *UploadController {
	return &UploadController{
		uploadService: uploadService,
	}
}

// UploadImage stores a multipart "file" field
// POST /upload/image
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	header, err := c.FormFile("file")
	if err != nil {
		log.Warn("Upload request without file", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "file is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err, map[string]interface{}{
			"filename": header.Filename,
		})
		apperrors.BadRequest(c, apperrors.UploadFailed, "Could not read uploaded file")
		return
	}
	defer file.Close()

	result, err := ctrl.uploadService.UploadImage(
		c.Request.Context(),
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		file,
	)
	if err != nil {
		respondServiceError(c, err, "upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename": result.Filename,
		"url":      result.URL,
		"size":     result.Size,
	})
}
