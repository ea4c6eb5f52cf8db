package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gravadigital/election-portal/internal/response"
	"github.com/gravadigital/election-portal/internal/storage/portraits"
)

const maxPortraitSize = 5 << 20 // 5MB

var portraitTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// UploadPortrait handles POST /api/candidates/:id/portrait
func (h *CandidateHandler) UploadPortrait(c *gin.Context) {
	ctx := c.Request.Context()
	candidateID := c.Param("id")

	// Check if candidate exists
	candidate, err := h.candidates.Get(ctx, candidateID)
	if err != nil {
		errorResponse(c, h.log, err, "Failed to load candidate")
		return
	}

	// Get the file from the form
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequestError(c, "No file provided")
		return
	}
	defer file.Close()

	if header.Size > maxPortraitSize {
		response.BadRequestError(c, "File size exceeds 5MB limit")
		return
	}

	contentType := header.Header.Get("Content-Type")
	ext, allowed := portraitTypes[contentType]
	if !allowed {
		response.BadRequestError(c, "File type not allowed. Use JPEG, PNG or GIF.")
		return
	}

	key := fmt.Sprintf("portraits/%s_%d%s", candidate.ID, time.Now().Unix(), ext)
	if err := h.portraits.Put(ctx, key, file, header.Size, contentType); err != nil {
		if errors.Is(err, portraits.ErrUploadsDisabled) {
			response.ErrorResponseWithMessage(c, http.StatusServiceUnavailable, "Portrait uploads are not configured.")
			return
		}
		h.log.Error("failed to store portrait", "candidate_id", candidate.ID, "error", err)
		response.InternalServerError(c, "Failed to save file")
		return
	}

	updated, err := h.candidates.SetPortrait(ctx, candidateID, key)
	if err != nil {
		errorResponse(c, h.log, err, "Failed to save portrait reference")
		return
	}

	h.log.Info("portrait uploaded", "candidate_id", candidate.ID, "key", key, "size", header.Size)
	response.Created(c, "File uploaded successfully", h.present(ctx, updated))
}
