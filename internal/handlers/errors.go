package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/middleware"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error    string                        `json:"error"`
	Kind     apperrors.Kind                `json:"kind,omitempty"`
	Code     string                        `json:"code,omitempty"`
	Failures []apperrors.ValidationFailure `json:"failures,omitempty"`
}

// statusFor maps a service error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}
	switch apperrors.KindOf(err) {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindInvalidState, apperrors.KindConflict, apperrors.KindDuplicate:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes its JSON representation. Internal failures are
// reported with fallback instead of the underlying message.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusFor(err)
	body := ErrorResponse{
		Error:    err.Error(),
		Code:     apperrors.CodeOf(err),
		Failures: apperrors.FailuresOf(err),
	}
	if status != http.StatusRequestTimeout && status != http.StatusGatewayTimeout {
		body.Kind = apperrors.KindOf(err)
	}

	if status >= http.StatusInternalServerError && status != http.StatusGatewayTimeout {
		logger.Error(fallback, slog.String("error", err.Error()))
		body.Error = fallback
	} else {
		logger.Warn(fallback, slog.String("error", err.Error()), slog.String("code", body.Code))
	}
	c.JSON(status, body)
}

// respondBindError reports a request that could not be bound or failed tag validation.
func respondBindError(c *gin.Context, logger *slog.Logger, err error, what string) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	body := ErrorResponse{
		Error: "Invalid " + what + ": " + err.Error(),
		Kind:  apperrors.KindValidation,
		Code:  codeInvalidRequest,
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			body.Failures = append(body.Failures, apperrors.ValidationFailure{
				Code:    codeForTag(fe),
				Field:   fe.Namespace(),
				Message: fe.Error(),
			})
		}
		body.Code = body.Failures[0].Code
	}
	c.JSON(http.StatusBadRequest, body)
}

const codeInvalidRequest = "InvalidRequest"

func codeForTag(fe validator.FieldError) string {
	switch {
	case fe.Tag() == "decimal_gte0":
		return apperrors.CodeInvalidLineAmount
	case fe.Tag() == "required" && fe.Field() == "Reason":
		return apperrors.CodeReasonRequired
	}
	return codeInvalidRequest
}

// actorFrom returns the authenticated actor or writes a 401.
func actorFrom(c *gin.Context, logger *slog.Logger) (string, bool) {
	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return actorID, true
}
