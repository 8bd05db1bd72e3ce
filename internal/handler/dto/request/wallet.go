package request

import (
	"parq-core/internal/domain/money"
)

type TopUpRequest struct {
	Amount      money.Amount `json:"amount" binding:"required"`
	Description string       `json:"description" binding:"max=200"`
}

type ListQuery struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" binding:"min=0"`
}
