package api

import (
	"net/http"
	"strings"

	reqdto "parq-core/internal/handler/dto/request"
	resdto "parq-core/internal/handler/dto/response"
	"parq-core/internal/handler/httperr"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/orchestrator"

	"github.com/gin-gonic/gin"
)

const (
	headerIdempotencyKey     = "Idempotency-Key"
	headerIdempotentReplayed = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 255
)

type BookingHandler struct {
	cmds orchestrator.Commands
	q    orchestrator.Queries
}

func NewBookingHandler(cmds orchestrator.Commands, q orchestrator.Queries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Quote booking
// @Description Price a prospective booking without reserving anything
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.QuoteBookingRequest true "Quote request"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/quote [post]
func (h *BookingHandler) Quote(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req reqdto.QuoteBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	quote, err := h.cmds.QuoteBooking(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuoteView(quote))
}

// @Summary Create booking
// @Description Reserve capacity, apply the coupon, and hold the total in the requester's wallet
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Replays the original result for a retried request"
// @Param request body reqdto.CreateBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Success 200 {object} resdto.BookingResponse "Replayed"
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	key := strings.TrimSpace(c.GetHeader(headerIdempotencyKey))
	if len(key) > maxIdempotencyKeyLength {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Validation("idempotency key too long"), "Idempotency-Key must be at most 255 characters", nil)
		return
	}
	var req reqdto.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.cmds.CreateBooking(c.Request.Context(), actor, req.ToInput(key))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
		c.Header(headerIdempotentReplayed, "true")
	}
	c.Header("Location", "/api/bookings/"+result.Booking.ID.String())
	c.JSON(status, resdto.FromBookingView(result.Booking))
}

// @Summary List my bookings
// @Description Newest first. Hosts see bookings on their spots.
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.PageResponse[resdto.BookingResponse]
// @Failure 400 {object} httperr.Response
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var query reqdto.ListQuery
	if !bindQuery(c, &query) {
		return
	}

	page, err := h.q.ListMyBookings(c.Request.Context(), actor, query.Cursor, query.Limit)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPage(page, resdto.FromBookingView))
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.q.GetBooking(c.Request.Context(), actor, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Cancel booking
// @Description Releases the reservation and refunds per the cancellation policy
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelBookingRequest false "Cancellation reason"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	view, err := h.cmds.CancelBooking(c.Request.Context(), actor, id, strings.TrimSpace(req.Reason))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Complete booking
// @Description Captures the held payment and pays the host
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/complete [post]
func (h *BookingHandler) Complete(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.cmds.CompleteBooking(c.Request.Context(), actor, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}
