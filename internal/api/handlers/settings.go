package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mheijden/portfolio-tracker/internal/api/request"
	"github.com/mheijden/portfolio-tracker/internal/api/response"
	"github.com/mheijden/portfolio-tracker/internal/apperrors"
	"github.com/mheijden/portfolio-tracker/internal/repository"
)

// SettingsHandler handles HTTP requests for system settings. Encrypted
// settings hold provider API keys; their plaintext is never echoed back.
type SettingsHandler struct {
	settingsRepo *repository.SettingsRepository
}

// NewSettingsHandler creates a new SettingsHandler with the provided repository.
func NewSettingsHandler(settingsRepo *repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{
		settingsRepo: settingsRepo,
	}
}

// GetSetting handles GET requests to read a setting value.
//
// Endpoint: GET /api/settings/{key}
// Response: 200 OK with {"key": ..., "value": ...}
// Error: 404 Not Found if the key does not exist
// Error: 500 Internal Server Error if retrieval or decryption fails
func (h *SettingsHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, err := h.settingsRepo.Get(key)
	if err != nil {
		if errors.Is(err, apperrors.ErrSettingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSettingNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to read setting", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

// SetSetting handles PUT requests to store a setting value.
//
// Endpoint: PUT /api/settings/{key}
// Request Body: SetSettingRequest (value, optionally encrypted)
// Response: 204 No Content
// Error: 400 Bad Request if the request body is invalid or the value is empty
// Error: 500 Internal Server Error if storage or encryption fails
func (h *SettingsHandler) SetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	req, err := parseJSON[request.SetSettingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Value == "" {
		response.RespondError(w, http.StatusBadRequest, "validation failed", "value is required")
		return
	}

	if err := h.settingsRepo.Set(r.Context(), key, req.Value, req.Encrypted); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to store setting", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
