package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/siprista/backend/internal/app/models/dto"
	"github.com/siprista/backend/internal/pkg/apperrors"
	"github.com/siprista/backend/internal/pkg/logger"
)

// InternalErrorMessage is the only text a 500 response carries.
const InternalErrorMessage = "Terjadi kesalahan server"

type errorKind struct {
	target  error
	status  int
	message string
	code    string
}

// Checked in order; the first kind err wraps decides the status.
var errorKinds = []errorKind{
	{apperrors.ErrValidationFailed, http.StatusBadRequest, "Data tidak valid", "VALIDATION_ERROR"},
	{apperrors.ErrDuplicate, http.StatusBadRequest, "Data sudah terdaftar", "DUPLICATE_ERROR"},
	{apperrors.ErrReferential, http.StatusBadRequest, "Data terkait tidak ditemukan", "REFERENTIAL_ERROR"},
	{apperrors.ErrDependency, http.StatusBadRequest, "Data masih digunakan", "DEPENDENCY_ERROR"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, "Data tidak ditemukan", "NOT_FOUND"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "Autentikasi gagal", "AUTH_ERROR"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, "Akses ditolak", "FORBIDDEN"},
}

// StatusFor returns the HTTP status, message and code err maps to.
func StatusFor(err error) (int, string, string) {
	for _, k := range errorKinds {
		if !errors.Is(err, k.target) {
			continue
		}
		message, code := k.message, k.code
		if m, ok := apperrors.Message(err); ok {
			message = m
		}
		if c := apperrors.Code(err); c != "" {
			code = c
		}
		return k.status, message, code
	}
	return http.StatusInternalServerError, InternalErrorMessage, "INTERNAL_ERROR"
}

// HandleAPIError writes the error envelope for err. Unclassified errors are logged and
// answered with a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	status, message, code := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled error")
	}
	_ = c.Error(err)
	c.JSON(status, dto.NewErrorResponse(message, code))
}

func abortWithError(c *gin.Context, err error) {
	HandleAPIError(c, err)
	c.Abort()
}
