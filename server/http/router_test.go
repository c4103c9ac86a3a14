package serverhttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menu-upload-service/internal/config"
	menuHnd "menu-upload-service/internal/menuimport/handler"
	"menu-upload-service/internal/menuimport/service"
	"menu-upload-service/internal/store/sqlite"
	"menu-upload-service/server/http/handlers"
)

type downDB struct{}

func (downDB) Ping(context.Context) error { return errors.New("gone") }

func newTestRouter(t *testing.T, db handlers.Pinger) http.Handler {
	t.Helper()
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "menu.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := zerolog.Nop()
	det := service.NewDetector(nil, log)
	up := service.NewUploader(st, log)
	menu := menuHnd.New(det, service.NewImporter(det, up, log), up, st, 1)
	cfg := config.Config{AllowOrigins: []string{"*"}, MaxUploadMB: 1}
	if db == nil {
		db = st
	}
	return NewRouter(cfg, log, menu, db)
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_HealthDegraded(t *testing.T) {
	r := newTestRouter(t, downDB{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_Routes(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/restaurants/r1/categories", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":[]}`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/menu/template?format=csv", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/menu/detect", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_BodyLimit(t *testing.T) {
	r := newTestRouter(t, nil)
	big := `{"rows":[{"name":"` + strings.Repeat("a", 2<<20) + `","price":1}]}`

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/restaurants/r1/menu/rows", strings.NewReader(big)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
