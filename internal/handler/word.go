package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

type WordHandler struct {
	svc *moderation.Service
}

func NewWordHandler(svc *moderation.Service) *WordHandler {
	return &WordHandler{svc: svc}
}

type CreateWordRequest struct {
	Headword      string          `json:"headword" binding:"required"`
	Meanings      []model.Meaning `json:"meanings" binding:"required"`
	PartOfSpeech  string          `json:"partOfSpeech"`
	Pronunciation string          `json:"pronunciation"`
	Tags          []string        `json:"tags"`
}

// Create stores a new draft owned by the caller
func (h *WordHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "headword and meanings are required")
		return
	}

	word, err := h.svc.CreateWord(c.Request.Context(), moderation.CreateWordCommand{
		ContributorID: userID,
		Content: model.WordContent{
			Headword:      req.Headword,
			Meanings:      req.Meanings,
			PartOfSpeech:  req.PartOfSpeech,
			Pronunciation: req.Pronunciation,
			Tags:          req.Tags,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, word)
}

// Submit sends the caller's draft to review
func (h *WordHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	word, err := h.svc.SubmitWord(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, word)
}

// Get returns the current state of a word. Drafts are shown only to their
// contributor and to admins.
func (h *WordHandler) Get(c *gin.Context) {
	word, err := h.svc.ViewWord(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, word)
}
