package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

type AdminHandler struct {
	svc *moderation.Service
}

func NewAdminHandler(svc *moderation.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Queue lists the words waiting in one review state, oldest first
func (h *AdminHandler) Queue(c *gin.Context) {
	state := model.ReviewState(c.DefaultQuery("state", string(model.StatePendingAdminReview)))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > moderation.MaxListLimit {
		limit = 20
	}

	offset := (page - 1) * limit

	words, err := h.svc.ListByState(c.Request.Context(), state, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  words,
		"state": state,
		"page":  page,
		"limit": limit,
	})
}

// Stats returns dashboard statistics
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.svc.QueueStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"byState":         stats.ByState,
		"total":           stats.Total,
		"openReports":     stats.OpenReports,
		"openCorrections": stats.OpenCorrections,
		"voteThreshold":   h.svc.Threshold(),
	})
}
