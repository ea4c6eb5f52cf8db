package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/response"
)

type ElectionHandler struct {
	election ElectionService
	log      *log.Logger
}

func NewElectionHandler(election ElectionService) *ElectionHandler {
	return &ElectionHandler{
		election: election,
		log:      logger.Handler("election"),
	}
}

// GetElectionStatus handles GET /api/election/status
func (h *ElectionHandler) GetElectionStatus(c *gin.Context) {
	open, err := h.election.IsVotingOpen(c.Request.Context())
	if err != nil {
		errorResponse(c, h.log, err, "Failed to load election status")
		return
	}
	response.OK(c, gin.H{"isVotingOpen": open})
}

// GetVotingStatus handles GET /api/admin/voting-status
func (h *ElectionHandler) GetVotingStatus(c *gin.Context) {
	status, err := h.election.VotingStatus(c.Request.Context())
	if err != nil {
		errorResponse(c, h.log, err, "Failed to load voting status")
		return
	}
	response.OK(c, status)
}

// OpenVoting handles POST /api/admin/open-voting
func (h *ElectionHandler) OpenVoting(c *gin.Context) {
	status, err := h.election.OpenVoting(c.Request.Context())
	if err != nil {
		errorResponse(c, h.log, err, "Failed to open voting")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Voting is now open.", status)
}

// CloseVoting handles POST /api/admin/close-voting
func (h *ElectionHandler) CloseVoting(c *gin.Context) {
	status, err := h.election.CloseVoting(c.Request.Context())
	if err != nil {
		errorResponse(c, h.log, err, "Failed to close voting")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Voting is now closed.", status)
}

// ClearDatabase handles POST /api/admin/clear-database
func (h *ElectionHandler) ClearDatabase(c *gin.Context) {
	removed, err := h.election.ClearDatabase(c.Request.Context())
	if err != nil {
		errorResponse(c, h.log, err, "Failed to clear database")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Election data cleared.", gin.H{"ballotsRemoved": removed})
}
