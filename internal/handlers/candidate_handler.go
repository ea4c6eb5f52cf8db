package handlers

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/election-portal/internal/domain/election"
	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/response"
	"github.com/gravadigital/election-portal/internal/services"
	"github.com/gravadigital/election-portal/internal/storage/portraits"
)

type CandidateHandler struct {
	candidates CandidateService
	portraits  portraits.Store
	log        *log.Logger
}

func NewCandidateHandler(candidates CandidateService, store portraits.Store) *CandidateHandler {
	return &CandidateHandler{
		candidates: candidates,
		portraits:  store,
		log:        logger.Handler("candidates"),
	}
}

// CandidateResponse is a candidate as the API returns it
type CandidateResponse struct {
	*election.Candidate
	PositionID  string `json:"positionId"`
	PortraitURL string `json:"portraitUrl,omitempty"`
}

func (h *CandidateHandler) present(ctx context.Context, c *election.Candidate) CandidateResponse {
	out := CandidateResponse{Candidate: c, PositionID: c.PositionID.String()}
	if c.PortraitRef == "" || h.portraits == nil {
		return out
	}
	url, err := h.portraits.URL(ctx, c.PortraitRef)
	if err != nil {
		h.log.Warn("failed to resolve portrait", "candidate_id", c.ID, "ref", c.PortraitRef, "error", err)
		return out
	}
	out.PortraitURL = url
	return out
}

// ListCandidates handles GET /api/candidates?positionId=
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	ctx := c.Request.Context()
	candidates, err := h.candidates.List(ctx, c.Query("positionId"))
	if err != nil {
		errorResponse(c, h.log, err, "Failed to load candidates")
		return
	}

	out := make([]CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, h.present(ctx, candidate))
	}
	response.OK(c, out)
}

// GetCandidate handles GET /api/candidates/:id
func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	candidate, err := h.candidates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, h.log, err, "Failed to load candidate")
		return
	}
	response.OK(c, h.present(c.Request.Context(), candidate))
}

// CreateCandidate handles POST /api/candidates
func (h *CandidateHandler) CreateCandidate(c *gin.Context) {
	var req services.CandidateRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	candidate, err := h.candidates.Create(c.Request.Context(), req)
	if err != nil {
		errorResponse(c, h.log, err, "Failed to create candidate")
		return
	}
	response.Created(c, "Candidate created successfully", h.present(c.Request.Context(), candidate))
}

// UpdateCandidate handles PUT /api/candidates/:id
func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	var req services.CandidateRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	candidate, err := h.candidates.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		errorResponse(c, h.log, err, "Failed to update candidate")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Candidate updated successfully", h.present(c.Request.Context(), candidate))
}

// DeleteCandidate handles DELETE /api/candidates/:id
func (h *CandidateHandler) DeleteCandidate(c *gin.Context) {
	if err := h.candidates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, h.log, err, "Failed to delete candidate")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Candidate deleted successfully", nil)
}
