package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"rent_my_house/internal/adapters/observability"
	"rent_my_house/internal/app"
	"rent_my_house/internal/domain"
)

type Handlers struct {
	Lifecycle *app.LifecycleService
	Reserve   *app.ReserveService
	Q         *app.QueryService
	JWTSecret string
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type idResponse struct {
	ID string `json:"id"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Group(func(r chi.Router) {
		r.Use(Auth(h.JWTSecret))
		r.Post("/api/reserve-house", h.reserveHouse)
		r.Post("/v1/reservations/{id}/accept", h.acceptReservation)
		r.Post("/v1/reservations/{id}/reject", h.rejectReservation)
		r.Get("/v1/reservations/{id}", h.getReservation)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func (h *Handlers) acceptReservation(w http.ResponseWriter, r *http.Request) {
	id, err := h.Lifecycle.AcceptReservation(r.Context(), chi.URLParam(r, "id"))
	observability.ObserveTransition("accept", outcomeLabel(err))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *Handlers) rejectReservation(w http.ResponseWriter, r *http.Request) {
	id, err := h.Lifecycle.RejectReservation(r.Context(), chi.URLParam(r, "id"))
	observability.ObserveTransition("reject", outcomeLabel(err))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}

func (h *Handlers) reserveHouse(w http.ResponseWriter, r *http.Request) {
	var body struct {
		HouseID   string `json:"houseId"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if body.HouseID == "" {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "houseId is required")
		return
	}
	id, err := h.Reserve.ReserveHouse(r.Context(), body.HouseID, body.StartDate, body.EndDate)
	observability.ObserveTransition("reserve", outcomeLabel(err))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idResponse{ID: id})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) getReservation(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Q.GetReservation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	etag, body := calcETagAndBody(rv)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getReservation body")
	}
}
