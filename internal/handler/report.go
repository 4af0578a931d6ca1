package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/model"
	"github.com/kurukh-lab/kurukh-lab.github.io-sub001/internal/moderation"
)

type ReportHandler struct {
	svc *moderation.Service
}

func NewReportHandler(svc *moderation.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type FileReportRequest struct {
	Reason  string          `json:"reason" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

// File attaches a report to a word under review
func (h *ReportHandler) File(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req FileReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "reason is required")
		return
	}

	report, err := h.svc.FileReport(c.Request.Context(), moderation.ReportCommand{
		WordID:      c.Param("id"),
		SubmitterID: userID,
		Reason:      req.Reason,
		Payload:     req.Payload,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

type ProposeCorrectionRequest struct {
	Field string          `json:"field" binding:"required"`
	Value json.RawMessage `json:"value" binding:"required"`
}

// Propose attaches a proposed field change to a word under review
func (h *ReportHandler) Propose(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req ProposeCorrectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "field and value are required")
		return
	}

	correction, err := h.svc.ProposeCorrection(c.Request.Context(), moderation.CorrectionCommand{
		WordID:      c.Param("id"),
		SubmitterID: userID,
		Field:       req.Field,
		Payload:     req.Value,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, correction)
}

type ResolveRequest struct {
	Note   string `json:"note"`
	Accept bool   `json:"accept"`
}

// ResolveReport closes a report
func (h *ReportHandler) ResolveReport(c *gin.Context) {
	h.resolve(c, c.Param("rid"), h.svc.ResolveReport)
}

// ResolveCorrection closes a correction, applying it when accepted
func (h *ReportHandler) ResolveCorrection(c *gin.Context) {
	h.resolve(c, c.Param("cid"), h.svc.ResolveCorrection)
}

func (h *ReportHandler) resolve(c *gin.Context, recordID string, apply func(ctx context.Context, cmd moderation.ResolveCommand) (model.Word, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	// An empty body resolves without a note and without accepting.
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request body")
		return
	}

	word, err := apply(c.Request.Context(), moderation.ResolveCommand{
		WordID:   c.Param("id"),
		RecordID: recordID,
		AdminID:  userID,
		Note:     req.Note,
		Accept:   req.Accept,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, word)
}
