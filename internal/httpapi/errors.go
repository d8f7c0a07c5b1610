package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kitbuilder587/lead-radar/internal/domain"
	"github.com/kitbuilder587/lead-radar/internal/mail"
	"github.com/kitbuilder587/lead-radar/internal/search"
	"github.com/kitbuilder587/lead-radar/internal/service"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type apiError struct {
	status int
	code   string
}

func classify(err error) apiError {
	switch {
	case errors.Is(err, domain.ErrEmptyCriteria),
		errors.Is(err, domain.ErrInvalidMaxPages),
		errors.Is(err, domain.ErrInvalidTimeRange),
		errors.Is(err, domain.ErrInvalidPlatform),
		errors.Is(err, domain.ErrTooManyPlatforms),
		errors.Is(err, domain.ErrInvalidModeType):
		return apiError{http.StatusBadRequest, "invalid_criteria"}
	case errors.Is(err, service.ErrUnknownFormat):
		return apiError{http.StatusBadRequest, "unknown_format"}
	case errors.Is(err, domain.ErrEmptyTemplate),
		errors.Is(err, mail.ErrInvalidMessage):
		return apiError{http.StatusBadRequest, "invalid_message"}
	case errors.Is(err, domain.ErrNoRecipients),
		errors.Is(err, domain.ErrNoLeads):
		return apiError{http.StatusUnprocessableEntity, "no_leads"}
	case errors.Is(err, domain.ErrUnauthorized):
		return apiError{http.StatusUnauthorized, "owner_required"}
	case errors.Is(err, domain.ErrRunNotFound),
		errors.Is(err, domain.ErrNotFound):
		return apiError{http.StatusNotFound, "not_found"}
	case errors.Is(err, search.ErrMissingCredentials),
		errors.Is(err, service.ErrMailNotConfigured):
		return apiError{http.StatusServiceUnavailable, "not_configured"}
	case errors.Is(err, search.ErrUnauthorized),
		errors.Is(err, search.ErrQuotaExceeded),
		errors.Is(err, mail.ErrAuthFailed):
		return apiError{http.StatusBadGateway, "provider_error"}
	case errors.Is(err, context.DeadlineExceeded):
		return apiError{http.StatusGatewayTimeout, "timeout"}
	default:
		return apiError{http.StatusInternalServerError, "internal_error"}
	}
}

func (h *handlers) fail(c *gin.Context, err error) {
	e := classify(err)

	msg := err.Error()
	if e.status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(ctxRequestID)),
		)
		msg = "internal server error"
	}

	_ = c.Error(err)
	c.JSON(e.status, errorBody{Error: e.code, Message: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: "bad_request", Message: msg})
}
