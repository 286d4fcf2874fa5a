package share

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPublicRouter(service *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/v1")
	RegisterPublicRoutes(api, service)
	return router
}

func TestDownloadByTokenWithoutAuthentication(t *testing.T) {
	service, _, files, blobs := newTestService(24 * time.Hour)
	ownerID := uuid.New()
	content := []byte("anyone with the link gets this")
	rec := addFile(files, blobs, ownerID, content)

	token, _, err := service.Issue(context.Background(), rec.ID, ownerID)
	require.NoError(t, err)

	router := newPublicRouter(service)

	// No Authorization header anywhere: link possession is the credential.
	req, _ := http.NewRequest(http.MethodGet, "/v1/share/download/"+token.Value, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, content, rr.Body.Bytes())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), rec.OriginalName)
}

func TestDownloadByUnknownToken(t *testing.T) {
	service, _, _, _ := newTestService(24 * time.Hour)
	router := newPublicRouter(service)

	req, _ := http.NewRequest(http.MethodGet, "/v1/share/download/not-a-token", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDownloadByExpiredToken(t *testing.T) {
	service, _, files, blobs := newTestService(24 * time.Hour)
	ownerID := uuid.New()
	rec := addFile(files, blobs, ownerID, []byte("payload"))

	issuedAt := time.Now()
	service.nowFunc = func() time.Time { return issuedAt }
	token, _, err := service.Issue(context.Background(), rec.ID, ownerID)
	require.NoError(t, err)

	service.nowFunc = func() time.Time { return issuedAt.Add(25 * time.Hour) }

	router := newPublicRouter(service)
	req, _ := http.NewRequest(http.MethodGet, "/v1/share/download/"+token.Value, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusGone, rr.Code)
}

func TestCreateShareLinkRequiresUser(t *testing.T) {
	service, _, _, _ := newTestService(24 * time.Hour)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/v1")
	RegisterRoutes(api, service)

	req, _ := http.NewRequest(http.MethodPost, "/v1/share/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
