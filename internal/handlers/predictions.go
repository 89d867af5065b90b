package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/cdlcentral/predictor-api/internal/artifacts"
	"github.com/cdlcentral/predictor-api/internal/encoding"
	"github.com/cdlcentral/predictor-api/internal/logic"
	"github.com/cdlcentral/predictor-api/internal/models"
)

// PredictSeries predicts the winner of a best-of-five series
// @Summary Predict Series
// @Description Predicts each map of a best-of-five and aggregates the series outcome. The mode rotation is fixed server side.
// @Tags Predictions
// @Accept json
// @Produce json
// @Param body body models.SeriesRequest true "Teams and the five maps"
// @Success 200 {object} models.SeriesPrediction
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Model Not Loaded"
// @Router /predictions/series [post]
func (h *Handler) PredictSeries(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.SeriesRequest
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
		h.errorResponse(w, http.StatusBadRequest, "A series needs two distinct teams and exactly 5 maps")
		return
	}

	pred, err := h.series.PredictSeries(r.Context(), &req)
	if err != nil {
		h.predictionError(w, err, &req)
		return
	}

	h.jsonResponse(w, http.StatusOK, pred)
}

func (h *Handler) predictionError(w http.ResponseWriter, err error, req *models.SeriesRequest) {
	var unknownErr *encoding.UnknownCategoryError
	switch {
	case errors.As(err, &unknownErr):
		h.errorResponse(w, http.StatusBadRequest, unknownErr.Error())
	case errors.Is(err, logic.ErrModelNotLoaded):
		h.errorResponse(w, http.StatusServiceUnavailable, "Model artifacts not loaded")
	default:
		h.logger.Errorw("Failed to predict series", "error", err,
			"team1", req.Team1, "team2", req.Team2)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to predict series")
	}
}

// GetMatchup returns the stored matchup history between two teams
// @Summary Get Matchup Features
// @Description Returns the differential features for a team pair on a map and mode, oriented team1 minus team2
// @Tags Predictions
// @Produce json
// @Param team1 query string true "First team"
// @Param team2 query string true "Second team"
// @Param map query string true "Map name"
// @Param mode query string true "Mode name"
// @Success 200 {object} models.DirectedFeatures
// @Failure 404 {object} map[string]string "No Matchup History"
// @Router /matchups [get]
func (h *Handler) GetMatchup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	team1, team2 := q.Get("team1"), q.Get("team2")
	mapName, mode := q.Get("map"), q.Get("mode")
	if team1 == "" || team2 == "" || mapName == "" || mode == "" {
		h.errorResponse(w, http.StatusBadRequest, "team1, team2, map and mode are required")
		return
	}

	diffs, err := h.series.LookupMatchup(r.Context(), team1, team2, mapName, mode)
	if err != nil {
		var unknownErr *encoding.UnknownCategoryError
		if errors.As(err, &unknownErr) {
			h.errorResponse(w, http.StatusBadRequest, unknownErr.Error())
			return
		}
		if errors.Is(err, logic.ErrModelNotLoaded) {
			h.errorResponse(w, http.StatusServiceUnavailable, "Model artifacts not loaded")
			return
		}
		h.logger.Errorw("Failed to look up matchup", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to look up matchup")
		return
	}
	if diffs == nil {
		h.errorResponse(w, http.StatusNotFound, models.OutcomeNoData)
		return
	}

	h.jsonResponse(w, http.StatusOK, diffs)
}

// GetFeatureImportance returns the loaded model's importance ranking
// @Summary Get Feature Importance
// @Tags Model
// @Produce json
// @Success 200 {array} models.FeatureImportance
// @Failure 503 {object} map[string]string "Model Not Loaded"
// @Router /model/importance [get]
func (h *Handler) GetFeatureImportance(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.series.Importances(r.Context())
	if err != nil {
		if errors.Is(err, logic.ErrModelNotLoaded) {
			h.errorResponse(w, http.StatusServiceUnavailable, "Model artifacts not loaded")
			return
		}
		h.logger.Errorw("Failed to get feature importances", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to get feature importances")
		return
	}

	h.jsonResponse(w, http.StatusOK, ranked)
}

// GetEvaluation returns the latest training run's evaluation report
// @Summary Get Model Evaluation
// @Tags Model
// @Produce json
// @Success 200 {object} models.EvaluationReport
// @Failure 404 {object} map[string]string "No Training Runs"
// @Router /model/evaluation [get]
func (h *Handler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	if h.evaluation == nil {
		h.errorResponse(w, http.StatusServiceUnavailable, "Evaluation reports are not configured")
		return
	}

	report, err := h.evaluation.LatestReport(r.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			h.errorResponse(w, http.StatusNotFound, "No training runs recorded")
			return
		}
		h.logger.Errorw("Failed to get evaluation report", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to get evaluation report")
		return
	}

	h.jsonResponse(w, http.StatusOK, report)
}

// ReloadModel swaps in a freshly loaded artifact snapshot
// @Summary Reload Model Artifacts
// @Tags Model
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string "Artifacts Unavailable"
// @Router /admin/reload [post]
func (h *Handler) ReloadModel(w http.ResponseWriter, r *http.Request) {
	if err := h.series.Reload(r.Context()); err != nil {
		var loadErr *artifacts.ArtifactLoadError
		if errors.As(err, &loadErr) {
			h.logger.Warnw("Artifact reload failed", "artifact", loadErr.Name, "error", loadErr.Err)
			h.errorResponse(w, http.StatusServiceUnavailable, loadErr.Error())
			return
		}
		h.logger.Errorw("Artifact reload failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to reload artifacts")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
