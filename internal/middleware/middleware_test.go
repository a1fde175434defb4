package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	authz "github.com/siprista/backend/internal/app/auth"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver map[string]authz.Identity

func (f fakeResolver) Resolve(_ context.Context, token string) (authz.Identity, error) {
	if token == "expired" {
		return authz.Identity{}, apperrors.ErrTokenExpired
	}
	id, ok := f[token]
	if !ok {
		return authz.Identity{}, apperrors.ErrTokenInvalid
	}
	return id, nil
}

var resolver = fakeResolver{
	"admin-token": {AccountID: "admin-1", Role: models.RoleAdmin},
	"guru-token":  {AccountID: "g-1", Role: models.RoleGuru},
}

func decodeError(t *testing.T, body io.Reader) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperrors.NewValidationError("Field NIS, nama, kelas, dan jenis kelamin harus diisi"), 400, "Field NIS, nama, kelas, dan jenis kelamin harus diisi"},
		{"duplicate", apperrors.NewDuplicateError("NIS sudah terdaftar"), 400, "NIS sudah terdaftar"},
		{"referential", apperrors.NewReferentialError("Siswa tidak ditemukan"), 400, "Siswa tidak ditemukan"},
		{"dependency", apperrors.NewDependencyError("Tidak dapat menghapus guru"), 400, "Tidak dapat menghapus guru"},
		{"not found", apperrors.NewResourceNotFoundError("Prestasi tidak ditemukan"), 404, "Prestasi tidak ditemukan"},
		{"wrapped not found", fmt.Errorf("controller: %w", apperrors.NewResourceNotFoundError("Siswa tidak ditemukan")), 404, "Siswa tidak ditemukan"},
		{"auth", apperrors.ErrInvalidCredentials, 401, "Password salah"},
		{"role mismatch", apperrors.ErrRoleMismatch, 401, "Role tidak sesuai"},
		{"forbidden", authz.ErrNotOwner, 403, "Anda hanya dapat mengubah prestasi yang Anda catat"},
		{"internal", errors.New("pq: connection refused"), 500, InternalErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message, code := StatusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
			assert.NotEmpty(t, code)
		})
	}
}

func TestHandleAPIError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/siswa", nil)

	HandleAPIError(c, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w.Body)
	assert.Equal(t, InternalErrorMessage, resp.Error)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func newAuthRouter() *gin.Engine {
	m := NewAuthMiddleware(resolver)
	r := gin.New()
	echo := func(c *gin.Context) {
		id, ok := GetIdentity(c)
		ctxID, ctxOK := authz.FromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"ok": ok, "accountId": id.AccountID, "ctx": ctxOK && ctxID == id})
	}
	r.GET("/private", m.JWTAuth(), echo)
	r.GET("/admin", m.JWTAuth(), m.RoleRequired(models.RoleAdmin), echo)
	r.GET("/optional", m.OptionalAuth(), echo)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newAuthRouter()

	tests := []struct {
		name     string
		path     string
		header   string
		status   int
		code     string
		expectID string
	}{
		{"missing token", "/private", "", 401, "AUTH_TOKEN_MISSING", ""},
		{"bearer", "/private", "Bearer guru-token", 200, "", "g-1"},
		{"query token", "/private?token=admin-token", "", 200, "", "admin-1"},
		{"invalid token", "/private", "Bearer nope", 401, "AUTH_INVALID_TOKEN", ""},
		{"expired session", "/private", "Bearer expired", 401, "AUTH_EXPIRED_TOKEN", ""},
		{"admin only as guru", "/admin", "Bearer guru-token", 403, "FORBIDDEN", ""},
		{"admin only as admin", "/admin", "Bearer admin-token", 200, "", "admin-1"},
		{"optional anonymous", "/optional", "", 200, "", ""},
		{"optional with token", "/optional", "Bearer guru-token", 200, "", "g-1"},
		{"optional bad token", "/optional", "Bearer nope", 401, "AUTH_INVALID_TOKEN", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status != http.StatusOK {
				assert.Equal(t, tt.code, decodeError(t, w.Body).Code)
				return
			}
			var body struct {
				OK        bool   `json:"ok"`
				AccountID string `json:"accountId"`
				Ctx       bool   `json:"ctx"`
			}
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.expectID, body.AccountID)
			assert.Equal(t, tt.expectID != "", body.OK)
			assert.Equal(t, tt.expectID != "", body.Ctx)
		})
	}
}

type bindTarget struct {
	Nama         string              `json:"nama" validate:"required"`
	Email        string              `json:"email" validate:"omitempty,email"`
	JenisKelamin models.JenisKelamin `json:"jenisKelamin" validate:"required"`
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"ok", `{"nama":"Ahmad","jenisKelamin":"LAKI_LAKI"}`, ""},
		{"blank required", `{"nama":"   ","jenisKelamin":"LAKI_LAKI"}`, "Semua field wajib harus diisi"},
		{"bad email", `{"nama":"A","email":"x","jenisKelamin":"PEREMPUAN"}`, "Field email harus berupa email yang valid"},
		{"unknown enum", `{"nama":"A","jenisKelamin":"X"}`, `nilai jenisKelamin tidak valid: "X"`},
		{"malformed", `{"nama":`, "Format request tidak valid"},
		{"wrong type", `{"nama":5}`, "Tipe data field nama tidak valid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var target bindTarget
			err := BindJSON(c, &target, "Semua field wajib harus diisi")
			if tt.message == "" {
				require.NoError(t, err)
				assert.Equal(t, "Ahmad", target.Nama)
				return
			}
			require.ErrorIs(t, err, apperrors.ErrValidationFailed)
			msg, _ := apperrors.Message(err)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics("siprista")
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/siswa/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/siswa/123", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `siprista_http_requests_total{method="GET",route="/api/siswa/:id",status="204"} 1`)
	assert.Contains(t, body, `route="unmatched"`)
	assert.Contains(t, body, "siprista_http_request_duration_seconds_bucket")
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}
