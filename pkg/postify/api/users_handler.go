package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/madhvi-n/postify/pkg/postify"
	"github.com/madhvi-n/postify/pkg/postify/admin"
)

// RegisterRequest is the request body for signing up
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RegisterResponse carries the new user and a bearer token for it
type RegisterResponse struct {
	User  *postify.User `json:"user"`
	Token string        `json:"token,omitempty"`
}

// Suggester recommends users to follow.
type Suggester interface {
	SuggestUsers(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error)
}

// UserHandler handles users, the caller's own resources and follow edges
type UserHandler struct {
	service   postify.Service
	admin     admin.AdminService
	issuer    TokenIssuer
	suggester Suggester
	identity  postify.Identity
}

// NewUserHandler creates a new user handler. issuer and suggester may be nil;
// a nil identity falls back to JWTIdentity.
func NewUserHandler(service postify.Service, adminService admin.AdminService, issuer TokenIssuer, suggester Suggester, identity postify.Identity) *UserHandler {
	if identity == nil {
		identity = JWTIdentity{}
	}
	return &UserHandler{service: service, admin: adminService, issuer: issuer, suggester: suggester, identity: identity}
}

// Routes returns the routes for /users
func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Register)
	r.Get("/", h.ListUsers)
	r.Delete("/me", h.DeleteAccount)
	r.Get("/{id}", h.GetUser)
	r.Post("/{id}/follow", h.FollowUser)
	r.Get("/{id}/followers/count", h.CountFollowers)

	return r
}

// MeRoutes returns the routes for /me
func (h *UserHandler) MeRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/following", h.ListFollowing)
	r.Get("/tags", h.ListFollowedTags)
	r.Get("/suggestions", h.Suggestions)

	return r
}

// FollowRoutes returns the routes for /follows
func (h *UserHandler) FollowRoutes() chi.Router {
	r := chi.NewRouter()

	r.Delete("/users/{id}", h.UnfollowUser)
	r.Delete("/tags/{id}", h.UnfollowTag)

	return r
}

// Register provisions a new account
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.admin.ProvisionUser(r.Context(), admin.ProvisionUserRequest{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := RegisterResponse{User: user}
	if h.issuer != nil {
		if resp.Token, err = h.issuer.IssueToken(user.ID); err != nil {
			writeError(w, r, err)
			return
		}
	}
	respond(w, r, resp, true)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, user)
}

// DeleteAccount removes the caller together with everything they own
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteAccount(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) FollowUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	follow, created, err := h.service.FollowUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, follow, created)
}

func (h *UserHandler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.UnfollowUser(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) UnfollowTag(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.UnfollowTag(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) CountFollowers(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id")
	if !ok {
		return
	}
	n, err := h.service.CountFollowers(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, CountResponse{Count: n})
}

func (h *UserHandler) ListFollowing(w http.ResponseWriter, r *http.Request) {
	follows, err := h.service.ListFollowing(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, follows)
}

func (h *UserHandler) ListFollowedTags(w http.ResponseWriter, r *http.Request) {
	follows, err := h.service.ListFollowedTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, follows)
}

const suggestionLimit = 10

// Suggestions lists users followed by the people the caller follows
func (h *UserHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	if h.suggester == nil {
		writeErrorBody(w, r, http.StatusNotImplemented, "not_implemented", "suggestions require the follow graph")
		return
	}
	caller, ok := h.identity.CurrentUser(r.Context())
	if !ok {
		writeError(w, r, postify.ErrUnauthenticated)
		return
	}
	ids, err := h.suggester.SuggestUsers(r.Context(), caller, suggestionLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, ids)
}
