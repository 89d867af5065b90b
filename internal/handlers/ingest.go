package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cdlcentral/predictor-api/internal/models"
)

// IngestStats handles POST /api/v1/ingest/stats
// @Summary Ingest Stat Rows
// @Description Accepts a batch of per-team map/mode stat rows from a data exporter
// @Tags Ingestion
// @Accept json
// @Produce json
// @Security IngestToken
// @Param body body models.IngestStatsRequest true "Stat rows"
// @Success 202 {object} models.IngestStatsResponse "Accepted"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /ingest/stats [post]
func (h *Handler) IngestStats(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.IngestStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Each row needs team, map and mode")
		return
	}

	if h.pool == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Ingestion is not configured")
		return
	}

	resp := models.IngestStatsResponse{}
	for i := range req.Rows {
		if h.pool.Enqueue(&req.Rows[i]) {
			resp.Accepted++
		} else {
			resp.Dropped++
		}
	}

	if resp.Dropped > 0 {
		h.logger.Warnw("Ingest batch partially dropped",
			"accepted", resp.Accepted, "dropped", resp.Dropped)
	}

	h.jsonResponse(w, http.StatusAccepted, resp)
}
