package api

import (
	"net/http"

	reqdto "parq-core/internal/handler/dto/request"
	resdto "parq-core/internal/handler/dto/response"
	"parq-core/internal/handler/httperr"
	"parq-core/internal/usecase/orchestrator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WalletHandler struct {
	cmds orchestrator.Commands
	q    orchestrator.Queries
}

func NewWalletHandler(cmds orchestrator.Commands, q orchestrator.Queries) *WalletHandler {
	return &WalletHandler{cmds: cmds, q: q}
}

// accountID resolves "me" to the caller's own account.
func accountID(c *gin.Context, actorID uuid.UUID) (uuid.UUID, bool) {
	if c.Param("id") == "" || c.Param("id") == "me" {
		return actorID, true
	}
	return pathID(c, "id")
}

// @Summary Get wallet balance
// @Tags wallets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID or 'me'"
// @Success 200 {object} resdto.WalletResponse
// @Failure 403 {object} httperr.Response
// @Router /wallets/{id} [get]
func (h *WalletHandler) Balance(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := accountID(c, actor.ID)
	if !ok {
		return
	}

	view, err := h.q.GetWalletBalance(c.Request.Context(), actor, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWalletView(view))
}

// @Summary List wallet transactions
// @Description Newest first
// @Tags wallets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID or 'me'"
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.PageResponse[resdto.TransactionResponse]
// @Failure 403 {object} httperr.Response
// @Router /wallets/{id}/transactions [get]
func (h *WalletHandler) Transactions(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := accountID(c, actor.ID)
	if !ok {
		return
	}
	var query reqdto.ListQuery
	if !bindQuery(c, &query) {
		return
	}

	page, err := h.q.ListTransactions(c.Request.Context(), actor, id, query.Cursor, query.Limit)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPage(page, resdto.FromTransactionView))
}

// @Summary Top up wallet
// @Tags wallets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param request body reqdto.TopUpRequest true "Credit"
// @Success 201 {object} resdto.TransactionResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /wallets/{id}/credits [post]
func (h *WalletHandler) TopUp(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.TopUpRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.cmds.TopUpWallet(c.Request.Context(), actor, id, req.Amount, req.Description)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromTransactionView(view))
}

// @Summary Reconcile wallet
// @Description Replays the ledger and compares it with the stored balance
// @Tags wallets
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} resdto.ReconcileResponse
// @Failure 403 {object} httperr.Response
// @Router /wallets/{id}/reconcile [get]
func (h *WalletHandler) Reconcile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.q.ReconcileAccount(c.Request.Context(), actor, id)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromReconcileView(view))
}
