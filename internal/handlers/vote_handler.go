package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/middleware/auth"
	"github.com/gravadigital/election-portal/internal/response"
	"github.com/gravadigital/election-portal/internal/tabulation"
)

type VoteHandler struct {
	ballots BallotService
	results tabulation.Source
	log     *log.Logger
}

func NewVoteHandler(ballots BallotService, results tabulation.Source) *VoteHandler {
	return &VoteHandler{
		ballots: ballots,
		results: results,
		log:     logger.Handler("votes"),
	}
}

// CastVoteRequest is the body of POST /api/votes/cast
type CastVoteRequest struct {
	VotesByPosition map[string][]string `json:"votesByPosition"`
}

// GetUserStatus handles GET /api/votes/user-status
func (h *VoteHandler) GetUserStatus(c *gin.Context) {
	voted, err := h.ballots.HasVoted(c.Request.Context(), auth.VoterID(c))
	if err != nil {
		errorResponse(c, h.log, err, "Failed to load vote status")
		return
	}
	response.OK(c, gin.H{"hasVoted": voted})
}

// CastVote handles POST /api/votes/cast
func (h *VoteHandler) CastVote(c *gin.Context) {
	var req CastVoteRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	voterID := auth.VoterID(c)
	message, err := h.ballots.Cast(c.Request.Context(), voterID, req.VotesByPosition)
	if err != nil {
		h.log.Debug("vote rejected", "voter_id", voterID, "error", err)
		errorResponse(c, h.log, err, "Failed to submit your vote. Please try again.")
		return
	}
	response.SuccessResponse(c, http.StatusCreated, message, nil)
}

// GetResults handles GET /api/votes/results
func (h *VoteHandler) GetResults(c *gin.Context) {
	snapshot, err := h.results.Results(c.Request.Context())
	if err != nil {
		errorResponse(c, h.log, err, "Failed to load results")
		return
	}
	response.OK(c, snapshot)
}
