package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/md-rashed-zaman/pharmacare/libs/httpx"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
)

type Booker interface {
	Book(ctx context.Context, body []byte) (int64, error)
	BookedTimes(ctx context.Context, rawDate string) ([]model.TimeOfDay, error)
	SlotBooked(ctx context.Context, rawDate, rawTime string) (model.TimeOfDay, bool, error)
}

type BookingHandler struct {
	booker Booker
	logger *slog.Logger
}

func NewBookingHandler(booker Booker, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{booker: booker, logger: logger}
}

type createAppointmentResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

type bookedSlotsResponse struct {
	Status string   `json:"status"`
	Times  []string `json:"times"`
}

type slotStatusResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
	Booked bool   `json:"booked"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeErr(w, r, h.logger, readBodyErr(err))
		return
	}
	id, err := h.booker.Book(r.Context(), body)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	h.logger.Info("appointment booked", "appointment_id", id, "request_id", httpx.RequestIDFromContext(r.Context()))
	httpx.WriteJSON(w, http.StatusOK, createAppointmentResponse{Status: "ok", ID: id})
}

func (h *BookingHandler) Booked(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	q := r.URL.Query()
	if q.Has("time") {
		t, booked, err := h.booker.SlotBooked(r.Context(), q.Get("date"), q.Get("time"))
		if err != nil {
			writeErr(w, r, h.logger, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, slotStatusResponse{Status: "ok", Time: t.String(), Booked: booked})
		return
	}
	times, err := h.booker.BookedTimes(r.Context(), q.Get("date"))
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	out := make([]string, 0, len(times))
	for _, t := range times {
		out = append(out, t.String())
	}
	httpx.WriteJSON(w, http.StatusOK, bookedSlotsResponse{Status: "ok", Times: out})
}
