//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"parq-core/internal/domain/auth"
	"parq-core/internal/domain/booking"
	"parq-core/internal/handler/api"
	resdto "parq-core/internal/handler/dto/response"
	"parq-core/internal/handler/middleware"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/orchestrator"
	"parq-core/internal/usecase/queries"
	"parq-core/tests/common/builder"
	"parq-core/tests/common/httptest"
	"parq-core/tests/common/testutil"
	orchestratormock "parq-core/tests/mock/orchestrator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// fakeAuth stands in for token parsing: any bearer token authenticates as actor.
func fakeAuth(actor *auth.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		middleware.SetActor(c, *actor)
		c.Next()
	}
}

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *orchestratormock.MockCommands
	mockQueries  *orchestratormock.MockQueries
	actor        auth.Actor
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = orchestratormock.NewMockCommands(s.mockCtrl)
	s.mockQueries = orchestratormock.NewMockQueries(s.mockCtrl)
	s.actor = auth.NewActor(uuid.New(), auth.RoleRequester)
	h := api.NewBookingHandler(s.mockCommands, s.mockQueries)

	g := s.router.Group("/api/bookings", fakeAuth(&s.actor))
	g.POST("/quote", h.Quote)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("/:id/cancel", h.Cancel)
	g.POST("/:id/complete", h.Complete)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/api/bookings"
	b := builder.NewBookingBuilder().WithRequester(s.actor.ID).WithHeldTotal(10000).WithStatus(booking.StatusConfirmed)
	reqBody := b.BuildCreateRequestDTO()
	view := b.BuildView()

	s.Run("success: 201 Created with Location", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.actor, gomock.Any()).
			DoAndReturn(func(_ any, _ auth.Actor, in orchestrator.CreateBookingInput) (*orchestrator.CreateBookingResult, error) {
				s.Equal(reqBody.SpotID, in.SpotID)
				s.Equal("key-1", in.IdempotencyKey)
				return &orchestrator.CreateBookingResult{Booking: view}, nil
			}).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
			map[string]string{"Idempotency-Key": "key-1"})

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(view.ID, body.ID)
		s.Equal("confirmed", body.Status)
		s.Equal(view.Total, body.Total)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/bookings/" + view.ID.String()})
	})

	s.Run("success: replay returns 200 and marks the response", func() {
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.actor, gomock.Any()).
			Return(&orchestrator.CreateBookingResult{Booking: view, Replayed: true}, nil).Times(1)

		rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token",
			map[string]string{"Idempotency-Key": "key-1"})

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Idempotent-Replayed": "true"})
	})

	s.Run("success: coupon code reaches the orchestrator", func() {
		withCoupon := builder.NewBookingBuilder().WithRequester(s.actor.ID).WithCoupon("PARQ20").BuildCreateRequestDTO()
		s.mockCommands.EXPECT().CreateBooking(gomock.Any(), s.actor, gomock.Any()).
			DoAndReturn(func(_ any, _ auth.Actor, in orchestrator.CreateBookingInput) (*orchestrator.CreateBookingResult, error) {
				s.Require().NotNil(in.CouponCode)
				s.Equal("PARQ20", *in.CouponCode)
				s.Empty(in.IdempotencyKey)
				return &orchestrator.CreateBookingResult{Booking: view}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, withCoupon, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 on missing fields", func() {
		cases := []testCaseBooking{
			{name: "missing spotId", mutate: testutil.Field("spotId", nil), expectCode: http.StatusBadRequest},
			{name: "missing startTime", mutate: testutil.Field("startTime", nil), expectCode: http.StatusBadRequest},
			{name: "missing endTime", mutate: testutil.Field("endTime", nil), expectCode: http.StatusBadRequest},
			{name: "missing vehicle", mutate: testutil.Field("vehicle", nil), expectCode: http.StatusBadRequest},
			{name: "malformed startTime", mutate: testutil.Field("startTime", "tomorrow"), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "VALIDATION_FAILED")
			})
		}
	})

	s.Run("error: kinds map to statuses", func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{errs.Wrap(errs.ErrCapacityExceeded, "spot full"), http.StatusConflict, "CAPACITY_EXCEEDED"},
			{errs.ErrInsufficientFunds, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS"},
			{errs.ErrCouponExpired, http.StatusGone, "COUPON_EXPIRED"},
			{errs.ErrCouponExhausted, http.StatusConflict, "COUPON_EXHAUSTED"},
			{errs.ErrMinOrderNotMet, http.StatusUnprocessableEntity, "MIN_ORDER_NOT_MET"},
			{errs.ErrNotAuthorized, http.StatusForbidden, "NOT_AUTHORIZED"},
			{errs.ErrIdempotencyInProgress, http.StatusConflict, "IDEMPOTENCY_IN_PROGRESS"},
			{errs.ErrStoreUnavailable, http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		}
		for _, tc := range cases {
			s.Run(errs.Code(tc.err), func() {
				s.mockCommands.EXPECT().CreateBooking(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.status, tc.code)
			})
		}
	})

	s.Run("error: 401 without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

// ================================================================================
// TestQuote
// ================================================================================

func (s *BookingHandlerTestSuite) TestQuote() {
	b := builder.NewBookingBuilder()
	reqBody := testutil.DtoMap(s.T(), b.BuildCreateRequestDTO(), testutil.Field("vehicle", nil))

	s.Run("success: returns the quote", func() {
		s.mockCommands.EXPECT().QuoteBooking(gomock.Any(), s.actor, gomock.Any()).
			Return(&queries.QuoteView{RateMode: "hourly", BillableUnits: 2, Total: 10000}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/quote", reqBody, "bearer-token")

		var body resdto.QuoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(int64(2), body.BillableUnits)
		s.Equal("100.00", body.Total.String())
	})

	s.Run("error: invalid coupon is 422", func() {
		s.mockCommands.EXPECT().QuoteBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrCouponInvalid).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/bookings/quote", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "COUPON_INVALID")
	})
}

// ================================================================================
// TestGetAndList
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	view := builder.NewBookingBuilder().BuildView()

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetBooking(gomock.Any(), s.actor, view.ID).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/"+view.ID.String(), nil, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID, body.ID)
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "VALIDATION_FAILED")
	})

	s.Run("error: 404 when missing", func() {
		s.mockQueries.EXPECT().GetBooking(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errs.ErrBookingNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings/"+uuid.NewString(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})
}

func (s *BookingHandlerTestSuite) TestList() {
	views := []*queries.BookingView{builder.NewBookingBuilder().BuildView(), builder.NewBookingBuilder().BuildView()}
	next := &queries.Cursor{After: queries.EncodeAfterCursor(time.Unix(100, 0), views[1].ID)}

	s.Run("success: passes cursor and limit through", func() {
		s.mockQueries.EXPECT().ListMyBookings(gomock.Any(), s.actor, "abc", 2).
			Return(queries.Page[*queries.BookingView]{Items: views, NextCursor: next}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings?cursor=abc&limit=2", nil, "bearer-token")

		var body resdto.PageResponse[*resdto.BookingResponse]
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 2)
		s.Require().NotNil(body.NextCursor)
		s.Equal(next.After, *body.NextCursor)
	})

	s.Run("error: bad cursor is 400", func() {
		s.mockQueries.EXPECT().ListMyBookings(gomock.Any(), gomock.Any(), "zzz", 0).
			Return(queries.Page[*queries.BookingView]{}, queries.ErrInvalidCursor).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/bookings?cursor=zzz", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "VALIDATION_FAILED")
	})
}

// ================================================================================
// TestCancelAndComplete
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancel() {
	view := builder.NewBookingBuilder().WithStatus(booking.StatusCancelled).BuildView()
	url := "/api/bookings/" + view.ID.String() + "/cancel"

	s.Run("success: reason is optional", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), s.actor, view.ID, "").Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("success: reason is trimmed", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), s.actor, view.ID, "plans changed").Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": "  plans changed "}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: terminal booking is 409", func() {
		s.mockCommands.EXPECT().CancelBooking(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrAlreadyTerminal).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "ALREADY_TERMINAL")
	})
}

func (s *BookingHandlerTestSuite) TestComplete() {
	view := builder.NewBookingBuilder().WithStatus(booking.StatusCompleted).BuildView()
	url := "/api/bookings/" + view.ID.String() + "/complete"

	s.Run("success", func() {
		s.mockCommands.EXPECT().CompleteBooking(gomock.Any(), s.actor, view.ID).Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var body resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("completed", body.Status)
	})

	s.Run("error: invalid transition is 409", func() {
		s.mockCommands.EXPECT().CompleteBooking(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.ErrInvalidTransition).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "INVALID_TRANSITION")
	})
}
