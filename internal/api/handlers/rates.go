package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mheijden/portfolio-tracker/internal/api/request"
	"github.com/mheijden/portfolio-tracker/internal/api/response"
	"github.com/mheijden/portfolio-tracker/internal/apperrors"
	"github.com/mheijden/portfolio-tracker/internal/model"
	"github.com/mheijden/portfolio-tracker/internal/service"
	"github.com/mheijden/portfolio-tracker/internal/validation"
)

// RateHandler handles HTTP requests for annual dividend rate endpoints,
// including the manual override write path and the recompute triggers.
type RateHandler struct {
	dividendService *service.DividendService
}

// NewRateHandler creates a new RateHandler with the provided service dependency.
func NewRateHandler(dividendService *service.DividendService) *RateHandler {
	return &RateHandler{
		dividendService: dividendService,
	}
}

// GetAllRates handles GET requests to retrieve every stored rate.
//
// Endpoint: GET /api/rates
// Response: 200 OK with array of AnnualDividendRate
// Error: 500 Internal Server Error if retrieval fails
func (h *RateHandler) GetAllRates(w http.ResponseWriter, _ *http.Request) {
	rates, err := h.dividendService.GetAllRates()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveRates.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, rates)
}

// GetRate handles GET requests to retrieve the authoritative rate for a symbol.
//
// Endpoint: GET /api/rates/{symbol}
// Response: 200 OK with AnnualDividendRate
// Error: 404 Not Found if no rate is stored for the symbol
// Error: 500 Internal Server Error if retrieval fails
func (h *RateHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	rate, err := h.dividendService.GetRate(symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrRateNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveRates.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, rate)
}

// RecomputeAll handles POST requests to recompute rates for every symbol
// with payment records. Symbols pinned by a manual override are computed
// but not overwritten; their outcome reads "skipped: protected".
//
// Endpoint: POST /api/rates/recompute
// Response: 200 OK with array of per-symbol RecomputeResult
// Error: 500 Internal Server Error if the batch fails
func (h *RateHandler) RecomputeAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.dividendService.RecomputeAll(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrRecomputeFailed.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, results)
}

// RecomputeSymbol handles POST requests to recompute the rate for one symbol.
//
// Endpoint: POST /api/rates/{symbol}/recompute?as_of=YYYY-MM-DD
// Response: 200 OK with RecomputeResult
// Error: 400 Bad Request if as_of is malformed
// Error: 500 Internal Server Error if the recompute fails
func (h *RateHandler) RecomputeSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	asOf, err := parseAsOf(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid as_of date", err.Error())
		return
	}

	result, err := h.dividendService.RecomputeSymbol(r.Context(), symbol, asOf)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrRecomputeFailed.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// GetOverride handles GET requests to retrieve the manual override for a symbol.
//
// Endpoint: GET /api/rates/{symbol}/override
// Response: 200 OK with AnnualDividendRate (source manual)
// Error: 404 Not Found if the symbol has no manual override
// Error: 500 Internal Server Error if retrieval fails
func (h *RateHandler) GetOverride(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	rate, err := h.dividendService.GetManualRate(symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrOverrideNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrOverrideNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveRates.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, rate)
}

// SetOverride handles PUT requests to pin a manual rate on a symbol. This
// is the only write path that can change a manual rate; automated recompute
// never touches it afterwards.
//
// Endpoint: PUT /api/rates/{symbol}/override
// Request Body: SetOverrideRequest (perShare, optionally frequency)
// Response: 200 OK with the stored AnnualDividendRate
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if storage fails
func (h *RateHandler) SetOverride(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	req, err := parseJSON[request.SetOverrideRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetOverride(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	rate, err := h.dividendService.SetManualRate(r.Context(), model.AnnualDividendRate{
		Symbol:    symbol,
		PerShare:  req.PerShare,
		Frequency: model.Frequency(req.Frequency),
	})
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to store override", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, rate)
}

// ClearOverride handles DELETE requests to remove a manual override. The
// symbol's rate is recomputed immediately so it falls back to the best
// automated candidate.
//
// Endpoint: DELETE /api/rates/{symbol}/override
// Response: 200 OK with the RecomputeResult of the follow-up recompute
// Error: 404 Not Found if the symbol has no manual override
// Error: 409 Conflict if the stored rate is not manual
// Error: 500 Internal Server Error if removal fails
func (h *RateHandler) ClearOverride(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	result, err := h.dividendService.ClearManualRate(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrOverrideNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrOverrideNotFound.Error(), err.Error())
			return
		}
		if errors.Is(err, apperrors.ErrNotManualSource) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrNotManualSource.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to clear override", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
