package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/termclust/logger"
	"github.com/yumyai/termclust/pkg/db"
	"github.com/yumyai/termclust/pkg/handler/request"
	"github.com/yumyai/termclust/pkg/middle"
	"github.com/yumyai/termclust/pkg/model"
)

// SubmitClusterHandler validates the request and starts a background clustering job.
// Configuration and term errors are reported before anything runs.
func (app *AppContext) SubmitClusterHandler(w http.ResponseWriter, r *http.Request) {

	var req request.ClusterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(err.Error())
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg := req.Config(app.Defaults)
	if err := cfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	terms := req.Terms
	if req.DatasetID != "" {
		if app.Store == nil {
			writeError(w, http.StatusServiceUnavailable, "No enrichment store configured")
			return
		}
		loaded, err := app.Store.LoadTerms(r.Context(), req.DatasetID)
		if errors.Is(err, db.ErrDatasetNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		} else if err != nil {
			logger.Error("Loading terms failed", zap.String("dataset_id", req.DatasetID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Loading terms failed")
			return
		}
		terms = loaded
	}

	if err := model.ValidateTerms(terms); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job := app.Jobs.Submit(req.DatasetID, terms, cfg)

	middle.Logger(r.Context()).Debug("Clustering job submitted",
		zap.String("job_id", job.ID),
		zap.String("dataset_id", req.DatasetID),
		zap.Int("terms", len(terms)))

	writeJSON(w, http.StatusAccepted, request.ClusterSubmitResponse{JobID: job.ID, Status: string(job.Status)})
}

func (app *AppContext) ClusterJobHandler(w http.ResponseWriter, r *http.Request) {

	jobID := r.PathValue("job_id")

	job, ok := app.Jobs.GetJob(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	writeJSON(w, http.StatusOK, job)
}

func (app *AppContext) DatasetsHandler(w http.ResponseWriter, r *http.Request) {

	if app.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "No enrichment store configured")
		return
	}

	datasets, err := app.Store.ListDatasets(r.Context())
	if err != nil {
		logger.Error("Listing datasets failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Listing datasets failed")
		return
	}

	writeJSON(w, http.StatusOK, datasets)
}

// ImportDatasetHandler validates a term collection and stores it for later runs.
func (app *AppContext) ImportDatasetHandler(w http.ResponseWriter, r *http.Request) {

	if app.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "No enrichment store configured")
		return
	}

	var req request.DatasetImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Dataset.DatasetID == "" {
		writeError(w, http.StatusBadRequest, "dataset.dataset_id is required")
		return
	}
	if err := model.ValidateTerms(req.Terms); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := app.Store.InsertDataset(r.Context(), req.Dataset, req.Terms); err != nil {
		logger.Error("Storing dataset failed", zap.String("dataset_id", req.Dataset.DatasetID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Storing dataset failed")
		return
	}

	middle.Logger(r.Context()).Info("Dataset imported",
		zap.String("dataset_id", req.Dataset.DatasetID),
		zap.Int("terms", len(req.Terms)))

	ds := req.Dataset
	ds.NTerms = len(req.Terms)
	writeJSON(w, http.StatusCreated, ds)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Encoding response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, request.ErrorResponse{Error: msg})
}
