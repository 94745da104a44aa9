package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type HTTPError struct {
	Message string            `json:"error"`
	Code    string            `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Message: message,
		Code:    code,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

// Validation writes a 400 listing the failing fields of a binding error.
func Validation(c *gin.Context, err error) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}

	c.JSON(http.StatusBadRequest, HTTPError{
		Message: "Dados inválidos.",
		Code:    "invalid_request",
		Fields:  fields,
	})
}

// Respond maps a use case error to an HTTP response. Business errors use
// their catalog status; anything else is logged and answered with a
// generic 500.
func Respond(c *gin.Context, logger *slog.Logger, err error) {
	if code, ok := AsBusiness(err); ok {
		status, message := statusFor(code)
		Write(c, status, code, message)
		return
	}

	if IsUniqueViolation(err) {
		Conflict(c, "conflict", "Registro duplicado.")
		return
	}

	if logger != nil {
		logger.Error("unhandled error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"err", err,
		)
	}
	Internal(c, "internal_error", "Erro interno.")
}
