package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"loan-projection/domain"
	"loan-projection/report"
	"loan-projection/repository"
	"loan-projection/service"
)

var validate = validator.New()

type projectionRequest struct {
	DealTerms *domain.Table `json:"deal_terms" validate:"required"`
	LoanTape  *domain.Table `json:"loan_tape" validate:"required"`
	Scenarios *domain.Table `json:"scenarios" validate:"required"`
}

type ProjectionHandler struct {
	service      *service.ProjectionService
	log          *zap.Logger
	maxBodyBytes int64
}

func NewProjectionHandler(service *service.ProjectionService, log *zap.Logger, maxBodyBytes int64) *ProjectionHandler {
	return &ProjectionHandler{service: service, log: log, maxBodyBytes: maxBodyBytes}
}

// RunProjection handles POST /projection/run. The response is the stored run
// as JSON, or one output table as CSV when format=csv (table=loan|pool).
func (h *ProjectionHandler) RunProjection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req projectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("error decoding request body", zap.Error(err))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "deal_terms, loan_tape and scenarios are required", http.StatusBadRequest)
		return
	}

	run, err := h.service.Run(r.Context(), domain.ProjectionInput{
		DealTerms: *req.DealTerms,
		LoanTape:  *req.LoanTape,
		Scenarios: *req.Scenarios,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		h.writeCSV(w, r.URL.Query().Get("table"), run)
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

// GetRun handles GET /projection/runs/{id}.
func (h *ProjectionHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

func (h *ProjectionHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case service.IsInputError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrRunNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "projection cancelled", http.StatusServiceUnavailable)
	default:
		h.log.Error("projection request failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *ProjectionHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	// Codificar JSON en buffer primero para evitar escribir header si falla
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		h.log.Error("error encoding response", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warn("error writing response", zap.Error(err))
	}
}

func (h *ProjectionHandler) writeCSV(w http.ResponseWriter, table string, run domain.ProjectionRun) {
	var (
		buf bytes.Buffer
		err error
	)
	switch table {
	case "", "pool":
		err = report.WritePoolPeriods(&buf, run.Result.PoolPeriods)
	case "loan":
		err = report.WriteLoanPeriods(&buf, run.Result.LoanPeriods)
	default:
		http.Error(w, "table must be loan or pool", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Error("error encoding csv", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("X-Projection-Run", run.ID)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warn("error writing response", zap.Error(err))
	}
}
