package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/bioof-backend/internal/platform/apierr"
	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := code
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = "unknown error"
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondAPIError writes err using its *apierr.Error status and code. Server
// side failures are logged in full and answered with a generic message.
func RespondAPIError(c *gin.Context, log *logger.Logger, err error, fallbackCode string) {
	status, code := http.StatusInternalServerError, fallbackCode
	var ae *apierr.Error
	if errors.As(err, &ae) {
		status = ae.Status
		if ae.Code != "" {
			code = ae.Code
		}
		err = ae.Err
	}
	if status >= http.StatusInternalServerError {
		if log != nil {
			log.Error("Request failed", "code", code, "path", c.FullPath(), "error", err)
		}
		RespondError(c, status, code, errors.New(http.StatusText(status)))
		return
	}
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
