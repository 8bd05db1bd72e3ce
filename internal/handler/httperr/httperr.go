package httperr

import (
	"net/http"

	"parq-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Code = errs.Code(err)
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Order matters: the first kind an error carries decides the status.
var statuses = []struct {
	kind   error
	status int
}{
	{errs.ErrCapacityExceeded, http.StatusConflict},
	{errs.ErrSpotInactive, http.StatusConflict},
	{errs.ErrInsufficientFunds, http.StatusPaymentRequired},
	{errs.ErrCouponInvalid, http.StatusUnprocessableEntity},
	{errs.ErrCouponExpired, http.StatusGone},
	{errs.ErrCouponExhausted, http.StatusConflict},
	{errs.ErrMinOrderNotMet, http.StatusUnprocessableEntity},
	{errs.ErrInvalidTransition, http.StatusConflict},
	{errs.ErrAlreadyTerminal, http.StatusConflict},
	{errs.ErrPendingTimeout, http.StatusConflict},
	{errs.ErrNotAuthorized, http.StatusForbidden},
	{errs.ErrUnauthenticated, http.StatusUnauthorized},
	{errs.ErrRateLimited, http.StatusTooManyRequests},
	{errs.ErrConcurrencyConflict, http.StatusConflict},
	{errs.ErrIdempotencyInProgress, http.StatusConflict},
	{errs.ErrIdempotencyKeyReused, http.StatusConflict},
	{errs.ErrStoreUnavailable, http.StatusServiceUnavailable},
	{errs.ErrNotFound, http.StatusNotFound},
	{errs.ErrDuplicate, http.StatusConflict},
	{errs.ErrValidation, http.StatusBadRequest},
}

// StatusFor maps an error kind to its HTTP status. Unclassified errors are 500.
func StatusFor(err error) int {
	for _, s := range statuses {
		if errs.Is(err, s.kind) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

// FromError aborts the request with the status and code of err's kind.
// Internal errors never leak their message.
func FromError(c *gin.Context, err error) {
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	} else if status == http.StatusServiceUnavailable {
		msg = "Service temporarily unavailable"
	}
	AbortWithError(c, status, err, msg, nil)
}
