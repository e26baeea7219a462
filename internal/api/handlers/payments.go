package handlers

import (
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

// PaymentHandler handles HTTP requests for dividend payment endpoints.
type PaymentHandler struct {
	dividendService *service.DividendService
}

// NewPaymentHandler creates a new PaymentHandler with the provided service dependency.
func NewPaymentHandler(dividendService *service.DividendService) *PaymentHandler {
	return &PaymentHandler{
		dividendService: dividendService,
	}
}

// CreatePayment handles POST requests to record a dividend payment.
// Payments are append-only; duplicates are deduplicated logically during
// rate computation, never rejected here.
//
// Endpoint: POST /api/payments
// Request Body: CreatePaymentRequest (symbol, exDate, perShare, currency, and optionally source)
// Response: 201 Created with DividendPayment
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePaymentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePayment(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	exDate, _ := time.Parse("2006-01-02", req.ExDate)
	source := model.PaymentSource(req.Source)
	if source == "" {
		source = model.PaymentSourceManual
	}

	payment, err := h.dividendService.AddPayment(r.Context(), model.DividendPayment{
		Symbol:   strings.ToUpper(strings.TrimSpace(req.Symbol)),
		ExDate:   exDate,
		PerShare: req.PerShare,
		Currency: strings.ToUpper(strings.TrimSpace(req.Currency)),
		Source:   source,
	})
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create payment", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, payment)
}

// GetAllPayments handles GET requests to retrieve every payment record.
//
// Endpoint: GET /api/payments
// Response: 200 OK with array of DividendPayment
// Error: 500 Internal Server Error if retrieval fails
func (h *PaymentHandler) GetAllPayments(w http.ResponseWriter, _ *http.Request) {
	payments, err := h.dividendService.GetAllPayments()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePayments.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, payments)
}

// GetPaymentsBySymbol handles GET requests to retrieve all payments for a
// symbol, ordered by ex-date.
//
// Endpoint: GET /api/payments/{symbol}
// Response: 200 OK with array of DividendPayment (empty array if none)
// Error: 400 Bad Request if the symbol is invalid (validated by middleware)
// Error: 500 Internal Server Error if retrieval fails
func (h *PaymentHandler) GetPaymentsBySymbol(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	payments, err := h.dividendService.GetPayments(symbol)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePayments.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, payments)
}
