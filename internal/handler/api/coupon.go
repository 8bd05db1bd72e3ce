package api

import (
	"net/http"

	reqdto "parq-core/internal/handler/dto/request"
	resdto "parq-core/internal/handler/dto/response"
	"parq-core/internal/handler/httperr"
	"parq-core/internal/usecase/orchestrator"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	cmds orchestrator.Commands
	q    orchestrator.Queries
}

func NewCouponHandler(cmds orchestrator.Commands, q orchestrator.Queries) *CouponHandler {
	return &CouponHandler{cmds: cmds, q: q}
}

// @Summary Create coupon
// @Tags coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCouponRequest true "Coupon"
// @Success 201 {object} resdto.CouponResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /coupons [post]
func (h *CouponHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req reqdto.CreateCouponRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cmds.CreateCoupon(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Header("Location", "/api/coupons/"+view.Code)
	c.JSON(http.StatusCreated, resdto.FromCouponView(view))
}

// @Summary Get coupon
// @Tags coupons
// @Produce json
// @Security BearerAuth
// @Param code path string true "Coupon code"
// @Success 200 {object} resdto.CouponResponse
// @Failure 404 {object} httperr.Response
// @Router /coupons/{code} [get]
func (h *CouponHandler) Get(c *gin.Context) {
	view, err := h.q.GetCoupon(c.Request.Context(), c.Param("code"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCouponView(view))
}
