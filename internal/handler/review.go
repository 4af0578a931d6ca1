package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/review"
)

type ReviewHandler struct {
	svc *moderation.Service
}

func NewReviewHandler(svc *moderation.Service) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type VoteRequest struct {
	Vote    model.VoteChoice `json:"vote" binding:"required"`
	Comment string           `json:"comment"`
}

// Vote records the caller's community vote
func (h *ReviewHandler) Vote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "vote is required")
		return
	}

	word, err := h.svc.SubmitVote(c.Request.Context(), moderation.VoteCommand{
		WordID:  c.Param("id"),
		VoterID: userID,
		Vote:    req.Vote,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, word)
}

type AdminActionRequest struct {
	Action review.EventKind `json:"action" binding:"required"`
	Reason string           `json:"reason"`
}

// AdminAction applies an admin review event
func (h *ReviewHandler) AdminAction(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req AdminActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "action is required")
		return
	}

	word, err := h.svc.ApplyAdminAction(c.Request.Context(), moderation.AdminActionCommand{
		WordID:  c.Param("id"),
		AdminID: userID,
		Action:  req.Action,
		Reason:  req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, word)
}

type RouteRequest struct {
	Target moderation.RouteTarget `json:"target" binding:"required"`
}

// Route sends a submitted word to the admin or community queue
func (h *ReviewHandler) Route(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "target is required")
		return
	}

	word, err := h.svc.RouteWord(c.Request.Context(), c.Param("id"), userID, req.Target)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, word)
}
