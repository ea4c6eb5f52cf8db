package handlers

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/gravadigital/election-portal/internal/logger"
	"github.com/gravadigital/election-portal/internal/response"
	"github.com/gravadigital/election-portal/internal/services"
)

type PositionHandler struct {
	positions PositionService
	log       *log.Logger
}

func NewPositionHandler(positions PositionService) *PositionHandler {
	return &PositionHandler{
		positions: positions,
		log:       logger.Handler("positions"),
	}
}

// ListPositions handles GET /api/positions?status=&sortBy=
func (h *PositionHandler) ListPositions(c *gin.Context) {
	positions, err := h.positions.List(c.Request.Context(), c.Query("status"), c.Query("sortBy"))
	if err != nil {
		errorResponse(c, h.log, err, "Failed to load positions")
		return
	}
	response.OK(c, positions)
}

// GetPosition handles GET /api/positions/:id
func (h *PositionHandler) GetPosition(c *gin.Context) {
	position, err := h.positions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorResponse(c, h.log, err, "Failed to load position")
		return
	}
	response.OK(c, position)
}

// CreatePosition handles POST /api/positions
func (h *PositionHandler) CreatePosition(c *gin.Context) {
	var req services.PositionRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	position, err := h.positions.Create(c.Request.Context(), req)
	if err != nil {
		errorResponse(c, h.log, err, "Failed to create position")
		return
	}
	response.Created(c, "Position created successfully", position)
}

// UpdatePosition handles PUT /api/positions/:id
func (h *PositionHandler) UpdatePosition(c *gin.Context) {
	var req services.PositionRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	position, err := h.positions.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		errorResponse(c, h.log, err, "Failed to update position")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Position updated successfully", position)
}

// DeletePosition handles DELETE /api/positions/:id
func (h *PositionHandler) DeletePosition(c *gin.Context) {
	if err := h.positions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		errorResponse(c, h.log, err, "Failed to delete position")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Position deleted successfully", nil)
}
