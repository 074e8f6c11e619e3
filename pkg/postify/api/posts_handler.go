package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/madhvi-n/postify/pkg/postify"
)

// CreatePostRequest is the request body for creating a post
type CreatePostRequest struct {
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	AuthorID       *uuid.UUID  `json:"author_id,omitempty"`
	AuthorUsername string      `json:"author_username,omitempty"`
	TagIDs         []uuid.UUID `json:"tag_ids,omitempty"`
	CategoryID     *uuid.UUID  `json:"category_id,omitempty"`
}

// UpdatePostRequest is the request body for a partial post update.
// Absent fields are left unchanged.
type UpdatePostRequest struct {
	Title         *string      `json:"title"`
	Content       *string      `json:"content"`
	TagIDs        *[]uuid.UUID `json:"tag_ids"`
	CategoryID    *uuid.UUID   `json:"category_id"`
	ClearCategory bool         `json:"clear_category"`
}

// SetCategoryRequest is the request body for moving a post to a category
type SetCategoryRequest struct {
	CategoryID uuid.UUID `json:"category_id"`
}

// CreateCommentRequest is the request body for commenting on a post
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// PostHandler handles posts and the comments and likes nested under them
type PostHandler struct {
	service postify.Service
}

// NewPostHandler creates a new post handler
func NewPostHandler(service postify.Service) *PostHandler {
	return &PostHandler{service: service}
}

// Routes returns the routes for /posts
func (h *PostHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListPosts)
	r.Post("/", h.CreatePost)
	r.Get("/slug/{slug}", h.GetPostBySlug)
	r.Get("/{id}", h.GetPost)
	r.Patch("/{id}", h.UpdatePost)
	r.Delete("/{id}", h.DeletePost)
	r.Post("/{id}/toggle/{flag}", h.TogglePostFlag)
	r.Put("/{id}/tags/{tagID}", h.AddPostTag)
	r.Delete("/{id}/tags/{tagID}", h.RemovePostTag)
	r.Put("/{id}/category", h.SetPostCategory)

	r.Get("/{id}/comments", h.ListComments)
	r.Post("/{id}/comments", h.CreateComment)

	r.Post("/{id}/likes", h.LikePost)
	r.Get("/{id}/likes/count", h.CountPostLikes)

	return r
}

// ListPosts lists posts newest first, filtered by the published, author and
// search query parameters
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := postify.ListPostsRequest{
		AuthorUsername: query.Get("author"),
		Search:         query.Get("search"),
	}
	if raw := query.Get("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(w, r, "invalid published: "+raw)
			return
		}
		req.Published = &published
	}

	posts, err := h.service.ListPosts(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, posts)
}

func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.service.CreatePost(r.Context(), postify.CreatePostRequest{
		Title:          req.Title,
		Content:        req.Content,
		AuthorID:       req.AuthorID,
		AuthorUsername: req.AuthorUsername,
		TagIDs:         req.TagIDs,
		CategoryID:     req.CategoryID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, post, true)
}

func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	post, err := h.service.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, post)
}

func (h *PostHandler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, post)
}

func (h *PostHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req UpdatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.service.UpdatePost(r.Context(), postify.UpdatePostRequest{
		ID:            id,
		Title:         req.Title,
		Content:       req.Content,
		TagIDs:        req.TagIDs,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, post)
}

func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePost(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) TogglePostFlag(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	post, err := h.service.TogglePostFlag(r.Context(), id, postify.PostFlag(chi.URLParam(r, "flag")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, post)
}

func (h *PostHandler) AddPostTag(w http.ResponseWriter, r *http.Request) {
	h.changeTag(w, r, h.service.AddPostTag)
}

func (h *PostHandler) RemovePostTag(w http.ResponseWriter, r *http.Request) {
	h.changeTag(w, r, h.service.RemovePostTag)
}

func (h *PostHandler) changeTag(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, postID, tagID uuid.UUID) (*postify.Post, error)) {
	postID, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	tagID, ok := urlID(w, r, "tagID")
	if !ok {
		return
	}
	post, err := op(r.Context(), postID, tagID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, post)
}

func (h *PostHandler) SetPostCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req SetCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	post, err := h.service.SetPostCategory(r.Context(), id, req.CategoryID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, post)
}

func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	comments, err := h.service.ListComments(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, comments)
}

func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	var req CreateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	comment, err := h.service.CreateComment(r.Context(), postify.CreateCommentRequest{PostID: id, Text: req.Text})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, comment, true)
}

func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	like(w, r, h.service, postify.LikeTargetPost)
}

func (h *PostHandler) CountPostLikes(w http.ResponseWriter, r *http.Request) {
	countLikes(w, r, h.service, postify.LikeTargetPost)
}

// FeedByTags lists posts carrying a tag the caller follows
func (h *PostHandler) FeedByTags(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.PostsByFollowedTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, posts)
}

func like(w http.ResponseWriter, r *http.Request, service postify.Service, kind postify.LikeTargetKind) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	l, created, err := service.Like(r.Context(), postify.LikeTarget{Kind: kind, ID: id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, l, created)
}

func countLikes(w http.ResponseWriter, r *http.Request, service postify.Service, kind postify.LikeTargetKind) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	n, err := service.CountLikes(r.Context(), postify.LikeTarget{Kind: kind, ID: id})
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, CountResponse{Count: n})
}
