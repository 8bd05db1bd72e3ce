package api

import (
	"net/http"
	"time"

	reqdto "parq-core/internal/handler/dto/request"
	resdto "parq-core/internal/handler/dto/response"
	"parq-core/internal/handler/httperr"
	"parq-core/internal/pkg/errs"
	"parq-core/internal/usecase/orchestrator"

	"github.com/gin-gonic/gin"
)

type SpotHandler struct {
	cmds orchestrator.Commands
	q    orchestrator.Queries
}

func NewSpotHandler(cmds orchestrator.Commands, q orchestrator.Queries) *SpotHandler {
	return &SpotHandler{cmds: cmds, q: q}
}

// @Summary Create spot
// @Tags spots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSpotRequest true "Spot"
// @Success 201 {object} resdto.SpotResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /spots [post]
func (h *SpotHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req reqdto.CreateSpotRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cmds.CreateSpot(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.Header("Location", "/api/spots/"+view.ID.String())
	c.JSON(http.StatusCreated, resdto.FromSpotView(view))
}

// @Summary Get spot
// @Tags spots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Success 200 {object} resdto.SpotResponse
// @Failure 404 {object} httperr.Response
// @Router /spots/{id} [get]
func (h *SpotHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.q.GetSpot(c.Request.Context(), id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSpotView(view))
}

// @Summary Query availability
// @Description Free capacity over a half-open window
// @Tags spots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Param start query string true "RFC 3339 start"
// @Param end query string true "RFC 3339 end"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /spots/{id}/availability [get]
func (h *SpotHandler) Availability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var query reqdto.AvailabilityQuery
	if !bindQuery(c, &query) {
		return
	}
	start, errStart := time.Parse(time.RFC3339, query.Start)
	end, errEnd := time.Parse(time.RFC3339, query.End)
	if errStart != nil || errEnd != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Validation("start and end must be RFC 3339"), "start and end must be RFC 3339 timestamps", nil)
		return
	}

	view, err := h.cmds.QueryAvailability(c.Request.Context(), id, start, end)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}

// @Summary Update spot capacity
// @Description Refused while existing reservations would exceed the new capacity
// @Tags spots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Param request body reqdto.UpdateCapacityRequest true "Capacity"
// @Success 200 {object} resdto.SpotResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /spots/{id}/capacity [patch]
func (h *SpotHandler) UpdateCapacity(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.UpdateCapacityRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cmds.UpdateSpotCapacity(c.Request.Context(), actor, id, *req.TotalCapacity)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSpotView(view))
}

// @Summary Activate or deactivate spot
// @Tags spots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spot ID"
// @Param request body reqdto.SetActiveRequest true "Active flag"
// @Success 200 {object} resdto.SpotResponse
// @Failure 403 {object} httperr.Response
// @Router /spots/{id}/active [patch]
func (h *SpotHandler) SetActive(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.SetActiveRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cmds.SetSpotActive(c.Request.Context(), actor, id, *req.Active)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSpotView(view))
}
