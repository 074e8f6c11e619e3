package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/madhvi-n/postify/pkg/postify/admin"
)

// AdminHandler exposes operations that bypass caller authorization.
// Mount it behind RequireAPIKey.
type AdminHandler struct {
	admin admin.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService admin.AdminService) *AdminHandler {
	return &AdminHandler{admin: adminService}
}

// Routes returns the routes for /admin
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/tags", h.CreateTag)
	r.Delete("/tags/{id}", h.DeleteTag)
	r.Post("/categories", h.CreateCategory)
	r.Delete("/categories/{id}", h.DeleteCategory)
	r.Get("/stats", h.GetStatistics)

	return r
}

func (h *AdminHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req admin.NameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tag, err := h.admin.CreateTag(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, tag, true)
}

func (h *AdminHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteTag(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req admin.NameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	category, err := h.admin.CreateCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, category, true)
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.GetStatistics(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}
