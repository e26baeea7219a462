// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mheijden/portfolio-tracker/internal/api/response"
	"github.com/mheijden/portfolio-tracker/internal/validation"
)

// ValidateSymbolMiddleware validates that the symbol URL parameter is
// present and is a plausible ticker symbol. Returns 400 Bad Request
// otherwise. Apply to routes with a {symbol} path parameter.
//
// Example usage in router:
//
//	r.Route("/{symbol}", func(r chi.Router) {
//	    r.Use(middleware.ValidateSymbolMiddleware)
//	    r.Get("/", handler.GetRate)
//	})
func ValidateSymbolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")

		if symbol == "" {
			response.RespondError(w, http.StatusBadRequest, "symbol is required", "")
			return
		}

		if err := validation.ValidateSymbol(strings.ToUpper(symbol)); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid symbol format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateISINMiddleware validates that the isin URL parameter is present
// and structurally valid. Returns 400 Bad Request otherwise.
func ValidateISINMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isin := chi.URLParam(r, "isin")

		if isin == "" {
			response.RespondError(w, http.StatusBadRequest, "ISIN is required", "")
			return
		}

		if err := validation.ValidateISIN(strings.ToUpper(isin)); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid ISIN format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
