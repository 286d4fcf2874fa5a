package share

import (
	"fmt"
	"io"
	"net/http"

	"github.com/abduss/sharebox/internal/auth"
	"github.com/abduss/sharebox/internal/file"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterRoutes mounts owner-scoped share issuance under the authenticated
// group.
func RegisterRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.POST("/share/:fileID", handler.createShareLink)
}

// RegisterPublicRoutes mounts the anonymous token download endpoint.
// Possession of the link is the only credential required here.
func RegisterPublicRoutes(group *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group.GET("/share/download/:token", handler.downloadByToken)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) createShareLink(c *gin.Context) {
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

	_, link, err := h.service.Issue(c.Request.Context(), fileID, userID)
	if err != nil {
		switch err {
		case file.ErrFileNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		case file.ErrPermissionDenied:
			c.JSON(http.StatusForbidden, gin.H{"error": "you don't have permission to share this file"})
		case ErrIssuanceFailed:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not generate share link, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate share link"})
		}
		return
	}

	c.JSON(http.StatusCreated, link)
}

func (h *httpHandler) downloadByToken(c *gin.Context) {
	value := c.Param("token")
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing share token"})
		return
	}

	rec, reader, err := h.service.Open(c.Request.Context(), value)
	if err != nil {
		switch err {
		case ErrInvalidToken:
			c.JSON(http.StatusNotFound, gin.H{"error": "invalid share link"})
		case ErrTokenExpired:
			c.JSON(http.StatusGone, gin.H{"error": "share link has expired"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to download file"})
		}
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/octet-stream")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.OriginalName))
	c.Header("Content-Length", fmt.Sprintf("%d", rec.SizeBytes))

	if _, err := io.Copy(c.Writer, reader); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
}
