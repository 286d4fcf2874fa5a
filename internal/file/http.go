package file

import (
	"fmt"
	"io"
	"net/http"

	"github.com/abduss/sharebox/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterRoutes mounts file operations under the provided router group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.POST("/files/upload", handler.uploadFile)
	group.GET("/files/my-files", handler.listMyFiles)
	group.GET("/files/download/:fileID", handler.downloadFile)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) uploadFile(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}

	upload, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer upload.Close()

	meta, err := h.service.Upload(c.Request.Context(), userID, fileHeader.Filename, fileHeader.Size, upload)
	if err != nil {
		switch err {
		case ErrEmptyFile:
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot upload empty file"})
		case ErrFileTooLarge:
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds maximum limit"})
		case ErrUnsupportedType:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file type, only pdf, jpg, png and txt are allowed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload file"})
		}
		return
	}

	c.JSON(http.StatusCreated, meta.ToResponse())
}

func (h *httpHandler) listMyFiles(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	list, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list files"})
		return
	}

	responses := make([]Response, 0, len(list))
	for _, meta := range list {
		responses = append(responses, meta.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"files": responses})
}

func (h *httpHandler) downloadFile(c *gin.Context) {
	userID, _, ok := auth.RequireUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid file id"})
		return
	}

	meta, reader, err := h.service.Download(c.Request.Context(), userID, fileID)
	if err != nil {
		switch err {
		case ErrFileNotFound, ErrObjectNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		case ErrPermissionDenied:
			c.JSON(http.StatusForbidden, gin.H{"error": "you don't have permission to download this file"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to download file"})
		}
		return
	}
	defer reader.Close()

	c.Header("Content-Type", contentTypeFor(meta.Extension))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", meta.OriginalName))
	c.Header("Content-Length", fmt.Sprintf("%d", meta.SizeBytes))

	if _, err := io.Copy(c.Writer, reader); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
}
