package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mheijden/portfolio-tracker/internal/api/request"
	"github.com/mheijden/portfolio-tracker/internal/api/response"
	"github.com/mheijden/portfolio-tracker/internal/apperrors"
	"github.com/mheijden/portfolio-tracker/internal/model"
	"github.com/mheijden/portfolio-tracker/internal/service"
	"github.com/mheijden/portfolio-tracker/internal/validation"
)

// PositionHandler handles HTTP requests for position snapshot endpoints.
type PositionHandler struct {
	positionService *service.PositionService
}

// NewPositionHandler creates a new PositionHandler with the provided service dependency.
func NewPositionHandler(positionService *service.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

// UpsertPosition handles POST requests to store a position snapshot.
// Snapshots are immutable per (symbol, date); posting the same pair again
// replaces the snapshot.
//
// Endpoint: POST /api/positions
// Request Body: UpsertPositionRequest
// Response: 201 Created with Position
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if storage fails
func (h *PositionHandler) UpsertPosition(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpsertPositionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpsertPosition(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	position, err := h.positionService.UpsertPosition(r.Context(), model.Position{
		Symbol:         strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Date:           date,
		Quantity:       req.Quantity,
		Price:          req.Price,
		CostPrice:      req.CostPrice,
		Currency:       strings.ToUpper(strings.TrimSpace(req.Currency)),
		FXRate:         req.FXRate,
		DividendFXRate: req.DividendFXRate,
	})
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to store position", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, position)
}

// GetPosition handles GET requests to retrieve the latest snapshot for a
// symbol on or before the as_of date.
//
// Endpoint: GET /api/positions/{symbol}?as_of=YYYY-MM-DD
// Response: 200 OK with Position
// Error: 400 Bad Request if as_of is malformed
// Error: 404 Not Found if the symbol has no snapshot in range
// Error: 500 Internal Server Error if retrieval fails
func (h *PositionHandler) GetPosition(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	asOf, err := parseAsOf(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid as_of date", err.Error())
		return
	}

	position, err := h.positionService.GetPosition(symbol, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrPositionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPositionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePositions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, position)
}

// ListPositions handles GET requests to retrieve the latest snapshot per
// held symbol.
//
// Endpoint: GET /api/positions?as_of=YYYY-MM-DD
// Response: 200 OK with array of Position
// Error: 400 Bad Request if as_of is malformed
// Error: 500 Internal Server Error if retrieval fails
func (h *PositionHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseAsOf(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid as_of date", err.Error())
		return
	}

	positions, err := h.positionService.ListPositions(asOf)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePositions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, positions)
}
