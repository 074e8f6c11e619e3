package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/madhvi-n/postify/pkg/postify"
)

// UpdateCommentRequest is the request body for editing a comment
type UpdateCommentRequest struct {
	Text string `json:"text"`
}

// CommentHandler handles comments and likes addressed by their own id
type CommentHandler struct {
	service postify.Service
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(service postify.Service) *CommentHandler {
	return &CommentHandler{service: service}
}

// Routes returns the routes for /comments
func (h *CommentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Patch("/{id}", h.UpdateComment)
	r.Delete("/{id}", h.DeleteComment)
	r.Post("/{id}/likes", h.LikeComment)
	r.Get("/{id}/likes/count", h.CountCommentLikes)

	return r
}

func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	comment, err := h.service.UpdateComment(r.Context(), postify.UpdateCommentRequest{ID: id, Text: req.Text})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, comment)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteComment(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CommentHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	like(w, r, h.service, postify.LikeTargetComment)
}

func (h *CommentHandler) CountCommentLikes(w http.ResponseWriter, r *http.Request) {
	countLikes(w, r, h.service, postify.LikeTargetComment)
}

// Unlike removes one of the caller's likes
func (h *CommentHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Unlike(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
