package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mheijden/portfolio-tracker/internal/api/response"
	"github.com/mheijden/portfolio-tracker/internal/apperrors"
	"github.com/mheijden/portfolio-tracker/internal/service"
)

// ReportHandler handles HTTP requests for yield reporting and portfolio
// reconciliation endpoints.
type ReportHandler struct {
	reportService    *service.ReportService
	validatorService *service.ValidatorService
}

// NewReportHandler creates a new ReportHandler with the provided service dependencies.
func NewReportHandler(
	reportService *service.ReportService,
	validatorService *service.ValidatorService,
) *ReportHandler {
	return &ReportHandler{
		reportService:    reportService,
		validatorService: validatorService,
	}
}

// YieldReport handles GET requests to retrieve the yield report for one symbol.
//
// Endpoint: GET /api/reports/yield/{symbol}?as_of=YYYY-MM-DD
// Response: 200 OK with YieldReport
// Error: 400 Bad Request if as_of is malformed
// Error: 404 Not Found if the symbol has no position snapshot
// Error: 500 Internal Server Error if the report fails
func (h *ReportHandler) YieldReport(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	asOf, err := parseAsOf(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid as_of date", err.Error())
		return
	}

	report, err := h.reportService.YieldReport(r.Context(), symbol, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrPositionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPositionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveReport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

// PortfolioYield handles GET requests to retrieve yield reports for every
// held symbol.
//
// Endpoint: GET /api/reports/yield?as_of=YYYY-MM-DD
// Response: 200 OK with array of YieldReport
// Error: 400 Bad Request if as_of is malformed
// Error: 500 Internal Server Error if the report fails
func (h *ReportHandler) PortfolioYield(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid as_of date", err.Error())
		return
	}

	reports, err := h.reportService.PortfolioYield(r.Context(), asOf)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveReport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, reports)
}

// Reconciliation handles GET requests to run the accounting-identity check
// over the portfolio. Mismatches are reported, not fixed.
//
// Endpoint: GET /api/reports/reconciliation?as_of=YYYY-MM-DD
// Response: 200 OK with ReconciliationResult
// Error: 400 Bad Request if as_of is malformed
// Error: 500 Internal Server Error if the pass fails
func (h *ReportHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid as_of date", err.Error())
		return
	}

	result, err := h.validatorService.Reconcile(asOf)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveReport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
