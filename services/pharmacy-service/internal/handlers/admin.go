package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/md-rashed-zaman/pharmacare/libs/httpx"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/reporting"
)

const timestampLayout = "02-01-2006 15:04:05"

const (
	appointmentListLimit = 500
	historyLimit         = 200
	dashboardLimit       = 50
)

type Reporter interface {
	FromToday(ctx context.Context, days int) (reporting.Report, error)
}

type AppointmentLister interface {
	ListRecent(ctx context.Context, limit int) ([]model.Appointment, error)
}

type ActivityLister interface {
	ListRecent(ctx context.Context, action model.Action, limit int) ([]model.Activity, error)
}

type UserLister interface {
	ListByDateJoined(ctx context.Context) ([]model.User, error)
}

// AdminHandler serves the superuser dashboard. Every route it exposes is
// expected to sit behind guard.RequireSuperuser.
type AdminHandler struct {
	reports      Reporter
	appointments AppointmentLister
	activities   ActivityLister
	users        UserLister
	loc          *time.Location
	logger       *slog.Logger
}

func NewAdminHandler(reports Reporter, appointments AppointmentLister, activities ActivityLister, users UserLister, loc *time.Location, logger *slog.Logger) *AdminHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminHandler{
		reports:      reports,
		appointments: appointments,
		activities:   activities,
		users:        users,
		loc:          loc,
		logger:       logger,
	}
}

func (h *AdminHandler) stamp(t time.Time) string {
	return t.In(h.loc).Format(timestampLayout)
}

type reportResponse struct {
	Status           string   `json:"status"`
	Labels           []string `json:"labels"`
	Booked           []int    `json:"booked"`
	Open             []int    `json:"open"`
	TotalSlotsPerDay int      `json:"total_slots_per_day"`
}

func (h *AdminHandler) ReportData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	days, err := reporting.ParseDays(r.URL.Query().Get("days"))
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	rep, err := h.reports.FromToday(r.Context(), days)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reportResponse{
		Status:           "ok",
		Labels:           rep.Labels,
		Booked:           rep.Booked,
		Open:             rep.Open,
		TotalSlotsPerDay: rep.SlotsPerDay,
	})
}

func (h *AdminHandler) ReportsPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, pageResponse{Status: "ok", Name: "admin_reports", Template: "admin_reports"})
}

type appointmentItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Service   string `json:"service"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	DOB       string `json:"dob"`
	Postcode  string `json:"postcode"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	NHS       string `json:"nhs"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

func (h *AdminHandler) Appointments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	appts, err := h.appointments.ListRecent(r.Context(), appointmentListLimit)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	items := make([]appointmentItem, 0, len(appts))
	for _, a := range appts {
		items = append(items, appointmentItem{
			ID:        a.ID,
			Name:      a.FirstName + " " + a.LastName,
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Service:   a.Service,
			Date:      a.Date.Format(reporting.LabelLayout),
			Time:      a.Time.Short(),
			DOB:       a.DOB,
			Postcode:  a.Postcode,
			Email:     a.Email,
			Phone:     a.Phone,
			NHS:       a.NHSNumber,
			Note:      a.Note,
			CreatedAt: h.stamp(a.CreatedAt),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "appointments": items})
}

type historyItem struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Timestamp string `json:"timestamp"`
}

type activityItem struct {
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Action    model.Action `json:"action"`
	Timestamp string       `json:"timestamp"`
}

// UserHistory lists recent sign-ins.
func (h *AdminHandler) UserHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	acts, err := h.activities.ListRecent(r.Context(), model.ActionLogin, historyLimit)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	items := make([]historyItem, 0, len(acts))
	for _, a := range acts {
		items = append(items, historyItem{Username: a.Username, Email: a.Email, Timestamp: h.stamp(a.Timestamp)})
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "history": items})
}

func (h *AdminHandler) ActivityLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	acts, err := h.activities.ListRecent(r.Context(), "", historyLimit)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "activities": h.activityItems(acts)})
}

func (h *AdminHandler) activityItems(acts []model.Activity) []activityItem {
	items := make([]activityItem, 0, len(acts))
	for _, a := range acts {
		items = append(items, activityItem{Username: a.Username, Email: a.Email, Action: a.Action, Timestamp: h.stamp(a.Timestamp)})
	}
	return items
}

type userItem struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
	DateJoined  string `json:"date_joined"`
}

type overviewResponse struct {
	Status       string         `json:"status"`
	Users        []userItem     `json:"users"`
	Activities   []activityItem `json:"activities"`
	FilterAction string         `json:"filter_action,omitempty"`
}

// Overview is the admin dashboard landing data: every user, newest first,
// and the latest activities.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	h.overview(w, r, "")
}

// Dashboard is Overview with an optional ?action= filter. Unknown actions
// are ignored rather than rejected.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	filter := model.Action(r.URL.Query().Get("action"))
	if !filter.Valid() {
		filter = ""
	}
	h.overview(w, r, filter)
}

func (h *AdminHandler) overview(w http.ResponseWriter, r *http.Request, filter model.Action) {
	users, err := h.users.ListByDateJoined(r.Context())
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	acts, err := h.activities.ListRecent(r.Context(), filter, dashboardLimit)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	items := make([]userItem, 0, len(users))
	for _, u := range users {
		items = append(items, userItem{
			ID:          u.ID,
			Username:    u.Username,
			Email:       u.Email,
			IsSuperuser: u.IsSuperuser,
			DateJoined:  h.stamp(u.DateJoined),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, overviewResponse{
		Status:       "ok",
		Users:        items,
		Activities:   h.activityItems(acts),
		FilterAction: string(filter),
	})
}
