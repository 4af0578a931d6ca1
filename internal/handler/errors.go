package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{moderation.ErrNotFound, http.StatusNotFound, "not_found"},
	{moderation.ErrRecordNotFound, http.StatusNotFound, "record_not_found"},
	{moderation.ErrDuplicateVote, http.StatusConflict, "duplicate_vote"},
	{moderation.ErrVersionConflict, http.StatusConflict, "version_conflict"},
	{moderation.ErrAlreadyExists, http.StatusConflict, "already_exists"},
	{moderation.ErrAlreadyResolved, http.StatusConflict, "already_resolved"},
	{moderation.ErrReviewClosed, http.StatusConflict, "review_closed"},
	{moderation.ErrSelfVote, http.StatusForbidden, "self_vote"},
	{moderation.ErrUnauthorizedAction, http.StatusForbidden, "unauthorized_action"},
	{moderation.ErrIneligibleVoter, http.StatusForbidden, "ineligible_voter"},
	{moderation.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input"},
	{moderation.ErrPersistence, http.StatusServiceUnavailable, "persistence_unavailable"},
	{context.DeadlineExceeded, http.StatusServiceUnavailable, "timeout"},
	{context.Canceled, http.StatusServiceUnavailable, "canceled"},
}

// respondError writes the JSON error body for a service failure.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			c.JSON(m.status, gin.H{"error": err.Error(), "code": m.code})
			return
		}
	}
	log.Printf("Unhandled error on %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "internal"})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": "bad_request"})
}

// currentUser returns the authenticated user id or writes a 401.
func currentUser(c *gin.Context) (string, bool) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return "", false
	}
	return userID, true
}
