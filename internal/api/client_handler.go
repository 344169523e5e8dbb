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

// ClientHandler handles client-related HTTP requests.
type ClientHandler struct {
	directory service.DirectoryService
	logger    *slog.Logger
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(directory service.DirectoryService, logger *slog.Logger) *ClientHandler {
	if directory == nil {
		panic("directory service cannot be nil for ClientHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ClientHandler{
		directory: directory,
		logger:    logger.With(slog.String("component", "client_handler")),
	}
}

// ListClients handles GET /client requests.
// It returns all clients including their providers' ids.
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	clients, err := h.directory.ListClients(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to list clients", err)
		return
	}

	response := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		response = append(response, clientToResponse(client))
	}

	log.Debug("listed clients", slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetClient handles GET /client/{id} requests.
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.clientIDFromURL(w, r)
	if !ok {
		return
	}

	client, err := h.directory.GetClient(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, clientToResponse(client))
}

// AddClient handles POST /client requests.
// It creates a new client with the nested associated providers.
//
// On success the complete created resource is returned rather than a
// Location header; it gives the caller the full resource state without a
// second request.
func (h *ClientHandler) AddClient(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ClientRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	client, err := h.directory.CreateClientWithProviders(r.Context(), req.toClientData())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("client created via API", slog.Int64("client_id", client.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, clientToResponse(client))
}

// UpdateClient handles PUT /client/{id} requests.
// It updates the client's fields and replaces its provider associations
// wholesale with the requested set.
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.clientIDFromURL(w, r)
	if !ok {
		return
	}

	var req ClientRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	client, err := h.directory.UpdateClientWithProviders(r.Context(), id, req.toClientData())
	if err != nil {
		safeMessage := GetSafeErrorMessage(err)
		if errors.Is(err, service.ErrClientNotFound) {
			safeMessage = "Trying to update a non-existent client"
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), safeMessage, err)
		return
	}

	log.Info("client updated via API", slog.Int64("client_id", id))
	shared.RespondWithJSON(w, r, http.StatusOK, clientToResponse(client))
}

// DeleteClient handles DELETE /client/{id} requests.
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, ok := h.clientIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.directory.DeleteClient(r.Context(), id); err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("client deleted via API", slog.Int64("client_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// clientIDFromURL extracts and parses the {id} URL parameter, responding
// with 400 when it is missing or not a positive integer.
func (h *ClientHandler) clientIDFromURL(w http.ResponseWriter, r *http.Request) (int64, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		log.Warn("invalid client ID in URL", slog.String("id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid client ID")
		return 0, false
	}
	return id, true
}
