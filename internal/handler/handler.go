// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
//
// The server holds one session at a time, like the single browser tab the
// booking core was built for: signing in replaces the session for every
// client.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/ticket-booking/internal/model"
	"github.com/Shivanand-hulikatti/ticket-booking/internal/repository"
	"github.com/Shivanand-hulikatti/ticket-booking/internal/service"
)

// Handler holds all HTTP handlers for the booking API.
type Handler struct {
	events   *service.EventService
	accounts *service.AccountStore
	bookings *service.BookingStore
	logger   *slog.Logger
}

// New constructs a Handler.
func New(
	events *service.EventService,
	accounts *service.AccountStore,
	bookings *service.BookingStore,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{events: events, accounts: accounts, bookings: bookings, logger: logger}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps service and repository errors to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidAccount),
		errors.Is(err, service.ErrInvalidBooking):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func sessionResponse(acc model.Account, ok bool) model.SessionResponse {
	if !ok {
		return model.SessionResponse{}
	}
	view := acc.Public()
	return model.SessionResponse{Authenticated: true, Account: &view}
}

// ─── Catalog ──────────────────────────────────────────────────────────────────

// ListEvents handles GET /events?search=
// Returns the catalog filtered by name or category.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.events.ListEvents(r.URL.Query().Get("search")))
}

// GetEvent handles GET /events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.GetEvent(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// ─── Accounts and session ─────────────────────────────────────────────────────

// Register handles POST /accounts
// Creates an account and signs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	acc, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, acc.Public())
}

// GetSession handles GET /session
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse(h.accounts.CurrentAccount()))
}

// Login handles POST /session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	acc, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(acc, true))
}

// Logout handles DELETE /session
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context()); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Bookings ─────────────────────────────────────────────────────────────────

// ListBookings handles GET /bookings
// Returns the bookings of the signed-in account.
func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.accounts.CurrentAccount()
	if !ok {
		h.writeServiceError(w, r, service.ErrNotAuthenticated)
		return
	}
	writeJSON(w, http.StatusOK, h.bookings.BookingsByUser(acc.Email))
}

// CreateBooking handles POST /bookings
// Books tickets to a catalog event for the signed-in account.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	acc, ok := h.accounts.CurrentAccount()
	if !ok {
		h.writeServiceError(w, r, service.ErrNotAuthenticated)
		return
	}

	var req model.CreateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.events.GetEvent(req.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.bookings.AddBooking(r.Context(), model.NewBooking{
		EventID:   event.ID,
		EventName: event.Name,
		Date:      event.Date,
		Quantity:  req.Quantity,
		UserID:    acc.Email,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// UpdateBooking handles PATCH /bookings/{id}
// Changes the ticket quantity after re-confirming the password.
func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.bookings.UpdateBooking(r.Context(), chi.URLParam(r, "id"), req.Quantity, req.Password); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CancelBooking handles DELETE /bookings/{id}
// Cancels the booking after re-confirming the password.
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	var req model.CancelBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := h.bookings.CancelBooking(r.Context(), chi.URLParam(r, "id"), req.Password); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
