package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mheijden/portfolio-tracker/internal/api/response"
	"github.com/mheijden/portfolio-tracker/internal/apperrors"
	"github.com/mheijden/portfolio-tracker/internal/marketdata"
)

// SymbolHandler handles HTTP requests for symbol lookup endpoints, backed
// directly by the market-data dispatcher.
type SymbolHandler struct {
	dispatcher *marketdata.Dispatcher
}

// NewSymbolHandler creates a new SymbolHandler with the provided dispatcher.
func NewSymbolHandler(dispatcher *marketdata.Dispatcher) *SymbolHandler {
	return &SymbolHandler{
		dispatcher: dispatcher,
	}
}

// LookupISIN handles GET requests to resolve an ISIN to ticker symbols.
//
// Endpoint: GET /api/symbols/isin/{isin}
// Response: 200 OK with array of SymbolMatch
// Error: 400 Bad Request if the ISIN is invalid (validated by middleware)
// Error: 502 Bad Gateway if every configured provider failed or declined
// Error: 500 Internal Server Error otherwise
func (h *SymbolHandler) LookupISIN(w http.ResponseWriter, r *http.Request) {
	isin := strings.ToUpper(chi.URLParam(r, "isin"))

	matches, err := h.dispatcher.LookupISIN(r.Context(), isin)
	if err != nil {
		if errors.Is(err, marketdata.ErrAllProvidersFailed) {
			response.RespondError(w, http.StatusBadGateway, marketdata.ErrAllProvidersFailed.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrSymbolNotFound.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, matches)
}
