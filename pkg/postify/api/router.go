package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"

	"github.com/madhvi-n/postify/pkg/postify"
	"github.com/madhvi-n/postify/pkg/postify/admin"
)

// RouterConfig holds the dependencies of the HTTP API
type RouterConfig struct {
	Service postify.Service
	Admin   admin.AdminService
	// Auth verifies bearer tokens and signs tokens on registration.
	Auth *jwtauth.JWTAuth
	// AdminAPIKeySHA256 guards /admin. Empty disables the admin routes.
	AdminAPIKeySHA256 string
	// Suggester serves /me/suggestions when set.
	Suggester Suggester
	// Identity resolves the caller for handlers that act outside the
	// service. It must match the identity the service was built with.
	// Defaults to JWTIdentity.
	Identity postify.Identity
}

// NewRouter builds the API routes, meant to be mounted under /api/v1.
func NewRouter(cfg RouterConfig) chi.Router {
	var issuer TokenIssuer
	if cfg.Auth != nil {
		issuer = JWTIssuer{Auth: cfg.Auth}
	}
	identity := cfg.Identity
	if identity == nil {
		identity = JWTIdentity{}
	}
	users := NewUserHandler(cfg.Service, cfg.Admin, issuer, cfg.Suggester, identity)
	posts := NewPostHandler(cfg.Service)
	comments := NewCommentHandler(cfg.Service)
	taxonomy := NewTaxonomyHandler(cfg.Service)

	r := chi.NewRouter()
	if cfg.Auth != nil {
		r.Use(jwtauth.Verifier(cfg.Auth))
		r.Use(rejectInvalidToken)
	}

	r.Mount("/users", users.Routes())
	r.Mount("/me", users.MeRoutes())
	r.Mount("/follows", users.FollowRoutes())
	r.Mount("/posts", posts.Routes())
	r.Mount("/comments", comments.Routes())
	r.Delete("/likes/{id}", comments.Unlike)
	r.Mount("/tags", taxonomy.TagRoutes())
	r.Mount("/categories", taxonomy.CategoryRoutes())
	r.Get("/feed/tags", posts.FeedByTags)

	if cfg.AdminAPIKeySHA256 != "" && cfg.Admin != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAPIKey(cfg.AdminAPIKeySHA256))
			r.Mount("/", NewAdminHandler(cfg.Admin).Routes())
		})
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorBody(w, r, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	return r
}
