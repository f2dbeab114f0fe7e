package response

import (
	"errors"
	"net/http"

	"busly/internal/shared/apperror"
	"busly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// StandardApiResponse is the envelope every JSON endpoint answers with.
// Success mirrors Status for clients that only check a boolean.
type StandardApiResponse struct {
	Success    bool        `json:"success"`
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, details interface{}) {
	c.JSON(code, StandardApiResponse{
		Success:    status == StatusSuccess,
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     details,
	})
}

func RespondSuccess(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, StatusSuccess, code, message, data, nil)
}

// RespondError writes a classified error. Internal failures are logged with
// their cause and answered with fallback only.
func RespondError(c *gin.Context, err error, fallback string) {
	kind := apperror.KindOf(err)
	code := apperror.HTTPStatus(kind)

	if code >= http.StatusInternalServerError {
		logger.GetDefault().LogHTTPError(c, err, code)
		RespondJSON(c, StatusError, code, fallback, nil, "internal server error")
		return
	}

	RespondJSON(c, StatusError, code, apperror.MessageOf(err, fallback), nil, nil)
}

// FieldError names a request field and the rule it broke
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// RespondBindError reports a request that failed binding or validation.
// Only field names and rule tags are echoed; decoder messages are not.
func RespondBindError(c *gin.Context, message string, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		RespondFailure(c, http.StatusBadRequest, message)
		return
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	RespondJSON(c, StatusError, http.StatusBadRequest, message, nil, fields)
}

// RespondFailure writes an error envelope with no details
func RespondFailure(c *gin.Context, code int, message string) {
	RespondJSON(c, StatusError, code, message, nil, nil)
}
