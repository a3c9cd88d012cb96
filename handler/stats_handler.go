package handler

import (
	"headlines/usecase"
	"headlines/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	svc *usecase.ArticlesService
}

func NewStatsHandler(svc *usecase.ArticlesService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		utils.InternalError(c, "Failed to collect stats")
		return
	}

	utils.Success(c, gin.H{
		"stats": stats,
	})
}
