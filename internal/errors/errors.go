package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/propdata-pk/propdata/internal/middleware"
	"github.com/propdata-pk/propdata/internal/valuation"
)

// Error code constants for standardized error responses
const (
	ErrNotFound           = "NOT_FOUND"
	ErrBadRequest         = "BAD_REQUEST"
	ErrInternalServer     = "INTERNAL_SERVER_ERROR"
	ErrValidation         = "VALIDATION_ERROR"
	ErrDatabaseConnection = "DATABASE_CONNECTION_ERROR"
	ErrServiceUnavailable = "SERVICE_UNAVAILABLE"

	// Valuation rejections
	ErrUnknownArea        = "UNKNOWN_AREA"
	ErrInvalidYear        = "INVALID_YEAR"
	ErrInvalidWidth       = "INVALID_WIDTH"
	ErrInvalidSize        = "INVALID_SIZE"
	ErrInvalidClass       = "INVALID_PROPERTY_CLASS"
	ErrHistoryDisabled    = "HISTORY_DISABLED"
	ErrHistoryUnavailable = "HISTORY_UNAVAILABLE"
	ErrInvalidLimit       = "INVALID_LIMIT"
)

// ErrorResponse is the top-level error response structure.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

func respond(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(c),
		},
	})
}

// NotFound returns a 404 Not Found error response.
// It logs a warning and sends a JSON response with the error details.
func NotFound(c *gin.Context, message string) {
	NotFoundWithCode(c, ErrNotFound, message)
}

// NotFoundWithCode is NotFound with a caller-chosen error code.
func NotFoundWithCode(c *gin.Context, code, message string) {
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Resource not found", map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
		})
	}

	respond(c, http.StatusNotFound, code, message, nil)
}

// BadRequest returns a 400 Bad Request error response with optional details.
// It logs a warning and sends a JSON response with the error details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	logFields := map[string]interface{}{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
		"path":       c.Request.URL.Path,
	}
	if details != nil {
		logFields["details"] = details
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Bad request", logFields)
	}

	respond(c, http.StatusBadRequest, ErrBadRequest, message, details)
}

// UnprocessableEntity returns a 422 response for well-formed input the
// valuation model rejects.
func UnprocessableEntity(c *gin.Context, code, message string, details map[string]interface{}) {
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Unprocessable entity", map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
		})
	}

	respond(c, http.StatusUnprocessableEntity, code, message, details)
}

// ServiceUnavailable returns a 503 response for a disabled or unreachable
// dependency.
func ServiceUnavailable(c *gin.Context, code, message string) {
	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Service unavailable", map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
		})
	}

	respond(c, http.StatusServiceUnavailable, code, message, nil)
}

// InternalServerError returns a 500 Internal Server Error response.
// It logs the error with full context and sends a generic error message to the client.
// The actual error details are not exposed to the client for security reasons.
func InternalServerError(c *gin.Context, message string, err error) {
	if log := middleware.GetLogger(c); log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message":    message,
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		})
	}

	respond(c, http.StatusInternalServerError, ErrInternalServer, message, nil)
}

// ValuationError maps an error returned by the valuation engine to a
// response. Unknown areas are 404s, other domain rejections are 422s, and
// anything else is an internal error.
func ValuationError(c *gin.Context, err error) {
	code := valuation.Code(err)
	switch {
	case code == "":
		InternalServerError(c, "Failed to value property", err)
	case stderrors.Is(err, valuation.ErrUnknownArea):
		NotFoundWithCode(c, ErrUnknownArea, err.Error())
	default:
		UnprocessableEntity(c, code, err.Error(), nil)
	}
}

// ValidationError returns a 400 Bad Request error response with field-specific validation errors.
// It parses the validation errors from the validator library and formats them for the client.
func ValidationError(c *gin.Context, validationErrors validator.ValidationErrors) {
	// Convert validation errors to a map of field -> error message
	details := make(map[string]interface{})
	for _, err := range validationErrors {
		field := err.Field()
		details[field] = formatValidationError(err)
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Warn("Validation error", map[string]interface{}{
			"request_id": middleware.GetRequestID(c),
			"path":       c.Request.URL.Path,
			"fields":     details,
		})
	}

	respond(c, http.StatusBadRequest, ErrValidation, "Validation failed for one or more fields", details)
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Value is too short or small (minimum: " + err.Param() + ")"
	case "max":
		return "Value is too long or large (maximum: " + err.Param() + ")"
	case "gt":
		return "Must be greater than " + err.Param()
	case "gte":
		return "Must be greater than or equal to " + err.Param()
	case "lt":
		return "Must be less than " + err.Param()
	case "lte":
		return "Must be less than or equal to " + err.Param()
	case "oneof":
		return "Must be one of: " + err.Param()
	case "area_name":
		return "Must be a non-blank area name"
	default:
		return "Validation failed for tag: " + err.Tag()
	}
}
