package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wallet.com/internal/application/usecase"
	"wallet.com/internal/domain/entity"
	"wallet.com/internal/domain/port"
	"wallet.com/internal/infrastructure/logger"
	"wallet.com/internal/infrastructure/metrics"
	"wallet.com/internal/infrastructure/repository"
)

const sessionHeader = "X-Session-ID"

// Handler holds HTTP handlers and their dependencies
type Handler struct {
	loginUseCase        *usecase.LoginUseCase
	getBalanceUseCase   *usecase.GetBalanceUseCase
	openSendFlowUseCase *usecase.OpenSendFlowUseCase
	sessions            *repository.SessionStore
	flows               *repository.FlowRegistry
	notifier            port.Notifier
	logger              logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	loginUseCase *usecase.LoginUseCase,
	getBalanceUseCase *usecase.GetBalanceUseCase,
	openSendFlowUseCase *usecase.OpenSendFlowUseCase,
	sessions *repository.SessionStore,
	flows *repository.FlowRegistry,
	notifier port.Notifier,
	logger logger.Logger,
) *Handler {
	return &Handler{
		loginUseCase:        loginUseCase,
		getBalanceUseCase:   getBalanceUseCase,
		openSendFlowUseCase: openSendFlowUseCase,
		sessions:            sessions,
		flows:               flows,
		notifier:            notifier,
		logger:              logger,
	}
}

// ErrorResponse is the JSON body of every error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Passphrase   string `json:"passphrase"`
	EncryptedKey string `json:"encryptedKey"`
}

// LoginResponse is returned after a successful login
type LoginResponse struct {
	SessionID string `json:"sessionId"`
	Address   string `json:"address"`
}

// FlowResponse describes a send flow
type FlowResponse struct {
	FlowID   string             `json:"flowId"`
	Display  entity.DisplayMode `json:"display"`
	Entries  []entity.SendEntry `json:"entries"`
	Balances map[string]string  `json:"balances"`
	Closed   bool               `json:"closed"`
}

// HandleLogin handles POST /login requests
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := requestLoggerFrom(ctx, h.logger)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestLogger.LogError(ctx, "Failed to parse JSON body", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	action, err := h.loginUseCase.Execute(ctx, usecase.LoginRequest{
		Passphrase:   req.Passphrase,
		EncryptedKey: req.EncryptedKey,
	})
	if errors.Is(err, entity.ErrMissingCredentials) {
		requestLogger.LogDebug(ctx, "Login ignored, form incomplete")
		writeError(w, err)
		return
	}
	metrics.LoginAttempts.WithLabelValues(metrics.ResultLabel(err)).Inc()
	if err != nil {
		requestLogger.LogWarning(ctx, "Login failed", "error", err.Error())
		writeError(w, err)
		return
	}

	requestLogger.LogInfo(ctx, "Login succeeded", "address", action.Credential.Address)
	writeJSON(w, http.StatusOK, LoginResponse{
		SessionID: action.SessionID,
		Address:   action.Credential.Address,
	})
}

// HandleBalance handles GET /balance/{address} requests
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := requestLoggerFrom(ctx, h.logger)

	address := r.PathValue("address")
	if address == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Missing address parameter"})
		return
	}

	balance, err := h.getBalanceUseCase.Execute(ctx, address)
	if err != nil {
		requestLogger.LogError(ctx, "Failed to get balance", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balance)
	requestLogger.LogInfo(ctx, "Balance retrieved", "address", address)
}

// HandleOpenSendFlow handles POST /send requests
func (h *Handler) HandleOpenSendFlow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := requestLoggerFrom(ctx, h.logger)

	sessionID := r.Header.Get(sessionHeader)
	credential, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	clear(credential.PrivateKey)

	id, flow, err := h.flows.Open(ctx, sessionID, func(onClose func()) (*usecase.SendFlow, error) {
		return h.openSendFlowUseCase.Execute(ctx, credential.Address, onClose)
	})
	if err != nil {
		requestLogger.LogError(ctx, "Failed to open send flow", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, flowResponse(id, flow.State()))
}

// HandleGetSendFlow handles GET /send/{id} requests
func (h *Handler) HandleGetSendFlow(w http.ResponseWriter, r *http.Request) {
	id, flow, ok := h.lookupFlow(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, flowResponse(id, flow.State()))
}

// HandleAddRecipient handles POST /send/{id}/recipients requests
func (h *Handler) HandleAddRecipient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := requestLoggerFrom(ctx, h.logger)

	id, flow, ok := h.lookupFlow(w, r)
	if !ok {
		return
	}

	var entry entity.SendEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		requestLogger.LogError(ctx, "Failed to parse JSON body", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON body"})
		return
	}

	if err := flow.AddRecipient(ctx, entry); err != nil {
		metrics.FlowEvents.WithLabelValues("recipient_rejected").Inc()
		requestLogger.LogWarning(ctx, "Recipient rejected", "flow_id", id, "error", err.Error())
		writeError(w, err)
		return
	}
	metrics.FlowEvents.WithLabelValues("recipient_added").Inc()

	requestLogger.LogInfo(ctx, "Recipient added",
		"flow_id", id,
		"symbol", entry.Symbol,
		"amount", entry.Amount.String())
	writeJSON(w, http.StatusOK, flowResponse(id, flow.State()))
}

// HandleCancelAddRecipient handles POST /send/{id}/recipients/cancel requests
func (h *Handler) HandleCancelAddRecipient(w http.ResponseWriter, r *http.Request) {
	id, flow, ok := h.lookupFlow(w, r)
	if !ok {
		return
	}
	if err := flow.CancelAddRecipient(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flowResponse(id, flow.State()))
}

// HandleReturnToAddRecipient handles POST /send/{id}/recipients/new requests
func (h *Handler) HandleReturnToAddRecipient(w http.ResponseWriter, r *http.Request) {
	id, flow, ok := h.lookupFlow(w, r)
	if !ok {
		return
	}
	if err := flow.ReturnToAddRecipient(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flowResponse(id, flow.State()))
}

// HandleConfirmTransaction handles POST /send/{id}/confirm requests
func (h *Handler) HandleConfirmTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestLogger := requestLoggerFrom(ctx, h.logger)

	id, flow, ok := h.lookupFlow(w, r)
	if !ok {
		return
	}

	receipt, err := flow.ConfirmTransaction(ctx)
	if err != nil {
		requestLogger.LogWarning(ctx, "Transaction not submitted", "flow_id", id, "error", err.Error())
		writeError(w, err)
		return
	}

	requestLogger.LogInfo(ctx, "Transaction confirmed", "flow_id", id, "tx_id", receipt.TxID)
	writeJSON(w, http.StatusOK, receipt)
}

// HandleCancelTransaction handles POST /send/{id}/cancel requests
func (h *Handler) HandleCancelTransaction(w http.ResponseWriter, r *http.Request) {
	_, flow, ok := h.lookupFlow(w, r)
	if !ok {
		return
	}
	if err := flow.CancelTransaction(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListNotifications handles GET /notifications requests
func (h *Handler) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.notifier.List(r.Context()))
}

// HandleDismissNotification handles DELETE /notifications/{id} requests
func (h *Handler) HandleDismissNotification(w http.ResponseWriter, r *http.Request) {
	h.notifier.Dismiss(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// HandleDismissAllNotifications handles DELETE /notifications requests
func (h *Handler) HandleDismissAllNotifications(w http.ResponseWriter, r *http.Request) {
	h.notifier.DismissAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// lookupFlow resolves the flow in the path for the caller's live session
func (h *Handler) lookupFlow(w http.ResponseWriter, r *http.Request) (string, *usecase.SendFlow, bool) {
	ctx := r.Context()
	sessionID := r.Header.Get(sessionHeader)
	credential, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		writeError(w, err)
		return "", nil, false
	}
	clear(credential.PrivateKey)

	id := r.PathValue("id")
	flow, err := h.flows.Get(ctx, sessionID, id)
	if err != nil {
		writeError(w, err)
		return "", nil, false
	}
	return id, flow, true
}

func flowResponse(id string, state entity.FlowState) FlowResponse {
	return FlowResponse{
		FlowID:   id,
		Display:  state.Display,
		Entries:  state.Entries,
		Balances: state.Balances.Strings(),
		Closed:   state.Closed,
	}
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrMissingCredentials), errors.Is(err, entity.ErrMissingAddress):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrDecryption), errors.Is(err, entity.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrFlowNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrFlowClosed), errors.Is(err, entity.ErrNoEntries), errors.Is(err, usecase.ErrSubmissionInProgress):
		return http.StatusConflict
	case errors.Is(err, entity.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrSubmission):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// SetupRoutes sets up all HTTP routes
func (h *Handler) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Apply middleware chain
	wrap := func(next http.HandlerFunc) http.HandlerFunc {
		return RequestIDMiddleware(LoggingMiddleware(RecoveryMiddleware(next, h.logger), h.logger), h.logger)
	}

	mux.HandleFunc("POST /login", wrap(h.HandleLogin))
	mux.HandleFunc("GET /balance/{address}", wrap(h.HandleBalance))
	mux.HandleFunc("POST /send", wrap(h.HandleOpenSendFlow))
	mux.HandleFunc("GET /send/{id}", wrap(h.HandleGetSendFlow))
	mux.HandleFunc("POST /send/{id}/recipients", wrap(h.HandleAddRecipient))
	mux.HandleFunc("POST /send/{id}/recipients/cancel", wrap(h.HandleCancelAddRecipient))
	mux.HandleFunc("POST /send/{id}/recipients/new", wrap(h.HandleReturnToAddRecipient))
	mux.HandleFunc("POST /send/{id}/confirm", wrap(h.HandleConfirmTransaction))
	mux.HandleFunc("POST /send/{id}/cancel", wrap(h.HandleCancelTransaction))
	mux.HandleFunc("GET /notifications", wrap(h.HandleListNotifications))
	mux.HandleFunc("DELETE /notifications", wrap(h.HandleDismissAllNotifications))
	mux.HandleFunc("DELETE /notifications/{id}", wrap(h.HandleDismissNotification))
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
