package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/md-rashed-zaman/pharmacare/libs/httpx"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/apperr"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/content"
	"github.com/md-rashed-zaman/pharmacare/services/pharmacy-service/internal/model"
)

type BranchStore interface {
	List(ctx context.Context) ([]model.Branch, error)
	Get(ctx context.Context, id int64) (model.Branch, error)
}

type SiteHandler struct {
	library  *content.Library
	branches BranchStore
	logger   *slog.Logger
}

func NewSiteHandler(library *content.Library, branches BranchStore, logger *slog.Logger) *SiteHandler {
	return &SiteHandler{library: library, branches: branches, logger: logger}
}

type pageResponse struct {
	Status   string `json:"status"`
	Name     string `json:"name"`
	Template string `json:"template"`
}

// Page serves the descriptor of a registered informational page.
func (h *SiteHandler) Page(p content.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, pageResponse{Status: "ok", Name: p.Name, Template: p.Template})
	}
}

func (h *SiteHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"name":         "index",
		"template":     "index",
		"testimonials": h.library.Testimonials(),
	})
}

func (h *SiteHandler) HealthAZ(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "conditions": h.library.Index()})
}

func (h *SiteHandler) Condition(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	slug := r.PathValue("slug")
	c, err := h.library.Condition(slug)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "slug": slug, "condition": c})
}

type branchItem struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func toBranchItem(b model.Branch) branchItem {
	return branchItem{ID: b.ID, Name: b.Name, Address: b.Address, Phone: b.Phone, Latitude: b.Latitude, Longitude: b.Longitude}
}

func (h *SiteHandler) Branches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	list, err := h.branches.List(r.Context())
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	items := make([]branchItem, 0, len(list))
	for _, b := range list {
		items = append(items, toBranchItem(b))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "branches": items})
}

func (h *SiteHandler) Branch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeErr(w, r, h.logger, apperr.New(apperr.NotFound, "Branch not found"))
		return
	}
	b, err := h.branches.Get(r.Context(), id)
	if err != nil {
		writeErr(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "branch": toBranchItem(b)})
}
