package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/webdir/client-provider-api/internal/api/shared"
	"github.com/webdir/client-provider-api/internal/platform/logger"
	"github.com/webdir/client-provider-api/internal/service"
)

// ProviderHandler handles provider-related HTTP requests.
type ProviderHandler struct {
	directory service.DirectoryService
	logger    *slog.Logger
}

// NewProviderHandler creates a new ProviderHandler.
func NewProviderHandler(directory service.DirectoryService, logger *slog.Logger) *ProviderHandler {
	if directory == nil {
		panic("directory service cannot be nil for ProviderHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProviderHandler{
		directory: directory,
		logger:    logger.With(slog.String("component", "provider_handler")),
	}
}

// ListProviders handles GET /provider requests.
func (h *ProviderHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	providers, err := h.directory.ListProviders(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list providers", err)
		return
	}

	response := make([]ProviderResponse, 0, len(providers))
	for _, provider := range providers {
		response = append(response, providerToResponse(provider))
	}

	log.Debug("listed providers", slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// AddProvider handles POST /provider requests.
func (h *ProviderHandler) AddProvider(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ProviderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	provider, err := h.directory.CreateProvider(r.Context(), service.ProviderData{Name: req.Name})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("provider created via API", slog.Int64("provider_id", provider.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, providerToResponse(provider))
}

// UpdateProvider handles PUT /provider/{id} requests.
func (h *ProviderHandler) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.providerIDFromURL(w, r)
	if !ok {
		return
	}

	var req ProviderRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	provider, err := h.directory.UpdateProvider(r.Context(), id, service.ProviderData{Name: req.Name})
	if err != nil {
		safeMessage := GetSafeErrorMessage(err)
		if errors.Is(err, service.ErrProviderNotFound) {
			safeMessage = "Trying to update a non-existent provider"
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), safeMessage, err)
		return
	}

	log.Info("provider updated via API", slog.Int64("provider_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, providerToResponse(provider))
}

// DeleteProvider handles DELETE /provider/{id} requests.
// Deleting a provider cascades to its association rows; the clients it was
// associated with are left intact.
func (h *ProviderHandler) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.providerIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.directory.DeleteProvider(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("provider deleted via API", slog.Int64("provider_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// providerIDFromURL extracts and parses the {id} URL parameter, responding
// with 400 when it is missing or not a positive integer.
func (h *ProviderHandler) providerIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		log.Warn("invalid provider ID in URL", slog.String("id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid provider ID")
		return 0, false
	}
	return id, true
}
