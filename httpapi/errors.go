package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/assist"
	"github.com/tbxark/checkoutbuilder/patch"
)

// kinder is satisfied by domain errors that carry a classification kind.
type kinder interface {
	Kind() string
}

var kindToStatus = map[string]int{
	"bad_request":     http.StatusBadRequest,
	"not_found":       http.StatusNotFound,
	"conflict":        http.StatusConflict,
	"invalid_config":  http.StatusUnprocessableEntity,
	"invalid_coupon":  http.StatusUnprocessableEntity,
	"selection_limit": http.StatusConflict,
	"rejected":        http.StatusUnprocessableEntity,
	"upstream":        http.StatusBadGateway,
	"timeout":         http.StatusGatewayTimeout,
	"canceled":        http.StatusRequestTimeout,
}

func errorKind(err error) string {
	if err == nil {
		return ""
	}
	var k kinder
	if errors.As(err, &k) {
		return k.Kind()
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, assist.ErrRejected),
		errors.Is(err, patch.ErrPathNotAllowed),
		errors.Is(err, patch.ErrInvalidPatch):
		return "rejected"
	case errors.Is(err, assist.ErrNoToolCall):
		return "upstream"
	default:
		return "internal"
	}
}

func httpStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if s, ok := kindToStatus[errorKind(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// badRequest marks request decoding failures.
type badRequest struct{ err error }

func (e badRequest) Error() string { return e.err.Error() }
func (e badRequest) Unwrap() error { return e.err }
func (badRequest) Kind() string    { return "bad_request" }

func (s *Server) fail(c *gin.Context, err error) {
	status := httpStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zapRequestID(c), zap.Error(err))
		msg = "internal error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
