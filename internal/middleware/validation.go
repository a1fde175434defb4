package middleware

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/siprista/backend/internal/app/models"
	"github.com/siprista/backend/internal/pkg/apperrors"
	"github.com/siprista/backend/internal/pkg/validation"
)

// BindJSON decodes the request body into obj and validates it. Decoding failures,
// unknown enum values and failed rules come back as validation errors.
// requiredMessage, when set, replaces the message for missing required fields.
func BindJSON(c *gin.Context, obj interface{}, requiredMessage string) error {
	if err := c.ShouldBindWith(obj, binding.JSON); err != nil {
		return bindError(err)
	}
	fields, err := validation.Struct(obj)
	if err != nil {
		return fmt.Errorf("failed to validate request: %w", err)
	}
	if len(fields) == 0 {
		return nil
	}
	if requiredMessage != "" && validation.HasTag(fields, "required") {
		return apperrors.NewValidationError(requiredMessage)
	}
	return apperrors.NewValidationError(formatValidationError(fields[0]))
}

func bindError(err error) error {
	var enumErr *models.EnumError
	if errors.As(err, &enumErr) {
		return apperrors.NewValidationError(enumErr.Error())
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperrors.NewValidationError(fmt.Sprintf("Tipe data field %s tidak valid", typeErr.Field))
	}
	return apperrors.NewValidationError("Format request tidak valid")
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validation.FieldError) string {
	switch e.Tag {
	case "required":
		return "Field " + e.Field + " harus diisi"
	case "email":
		return "Field " + e.Field + " harus berupa email yang valid"
	default:
		return "Field " + e.Field + " tidak valid"
	}
}
