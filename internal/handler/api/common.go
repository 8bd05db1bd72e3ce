package api

import (
	"net/http"

	"parq-core/internal/domain/auth"
	"parq-core/internal/handler/httperr"
	"parq-core/internal/handler/middleware"
	"parq-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func currentActor(c *gin.Context) (auth.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthenticated, "Unauthorized", nil)
	}
	return actor, ok
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrValidation), "Invalid "+name+" format", nil)
		return uuid.Nil, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrValidation), "Invalid request format", err.Error())
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errs.ErrValidation), "Invalid query parameters", err.Error())
		return false
	}
	return true
}
