package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/madhvi-n/postify/pkg/postify"
)

// TaxonomyHandler exposes tags and categories to regular callers
type TaxonomyHandler struct {
	service postify.Service
}

// NewTaxonomyHandler creates a new taxonomy handler
func NewTaxonomyHandler(service postify.Service) *TaxonomyHandler {
	return &TaxonomyHandler{service: service}
}

// TagRoutes returns the routes for /tags
func (h *TaxonomyHandler) TagRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListTags)
	r.Post("/{id}/follow", h.FollowTag)
	r.Get("/{id}/followers/count", h.CountTagFollowers)

	return r
}

// CategoryRoutes returns the routes for /categories
func (h *TaxonomyHandler) CategoryRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListCategories)
	return r
}

func (h *TaxonomyHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.service.ListTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, tags)
}

func (h *TaxonomyHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, categories)
}

func (h *TaxonomyHandler) FollowTag(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	follow, created, err := h.service.FollowTag(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, follow, created)
}

func (h *TaxonomyHandler) CountTagFollowers(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	n, err := h.service.CountTagFollowers(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, CountResponse{Count: n})
}
