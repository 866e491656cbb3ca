package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
)

// Validator checks request structs against their validate tags and renders
// failures as RFC 7807 problems.
type Validator struct {
	validate     *validator.Validate
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewValidator creates a validator with the custom tags registered
func NewValidator(errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		validate:     NewStructValidator(),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("component", "validation_middleware")),
	}
}

// NewStructValidator returns a validator.Validate reporting JSON field names
// and knowing the filename tag.
func NewStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("filename", isValidFilename)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct validates v and returns an APIError listing every failed field
func (m *Validator) ValidateStruct(v interface{}) error {
	return ValidateStruct(m.validate, v)
}

// ValidateStruct validates v with validate
func ValidateStruct(validate *validator.Validate, v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	out := make([]apperrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apperrors.ValidationError{
			Field:   fe.Field(),
			Message: FormatFieldError(fe),
		})
	}
	return apperrors.NewValidationErrors(out)
}

// QueryInt reads an integer query parameter, returning def when it is absent.
// A malformed value is answered with a 400 problem and ok=false.
func (m *Validator) QueryInt(w http.ResponseWriter, r *http.Request, param string, def int) (value int, ok bool) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return def, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		m.logger.DebugContext(r.Context(), "invalid query parameter",
			slog.String("param", param),
			slog.String("value", raw))
		m.errorHandler.HandleError(w, r, apperrors.InvalidParameter(param, err))
		return 0, false
	}
	return value, true
}

// Check validates v and answers with a 400 problem on failure
func (m *Validator) Check(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := m.ValidateStruct(v); err != nil {
		m.errorHandler.HandleError(w, r, err)
		return false
	}
	return true
}

// FormatFieldError renders a single field failure
func FormatFieldError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "filename":
		return fmt.Sprintf("%s must be a plain file name", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isValidFilename rejects empty names, separators and traversal
func isValidFilename(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || len(name) > 255 {
		return false
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.Base(name) == name
}
