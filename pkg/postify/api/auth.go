package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"

	"github.com/madhvi-n/postify/pkg/postify"
)

// JWTIdentity resolves the caller from the "sub" claim of the token that
// jwtauth.Verifier placed in the request context. Without a verified token it
// falls back to a principal set with postify.WithPrincipal.
type JWTIdentity struct{}

var _ postify.Identity = JWTIdentity{}

func (JWTIdentity) CurrentUser(ctx context.Context) (uuid.UUID, bool) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err == nil && token != nil {
		if sub, ok := claims["sub"].(string); ok {
			if id, err := uuid.Parse(sub); err == nil && id != uuid.Nil {
				return id, true
			}
		}
	}
	return postify.PrincipalFromContext(ctx)
}

// TokenIssuer signs bearer tokens for users.
type TokenIssuer interface {
	IssueToken(userID uuid.UUID) (string, error)
}

// JWTIssuer issues HS256 tokens whose "sub" claim is the user id.
type JWTIssuer struct {
	Auth *jwtauth.JWTAuth
}

func (i JWTIssuer) IssueToken(userID uuid.UUID) (string, error) {
	_, token, err := i.Auth.Encode(map[string]interface{}{"sub": userID.String()})
	return token, err
}

// rejectInvalidToken answers 401 when a bearer token was presented but failed
// verification. Requests without a token continue anonymously.
func rejectInvalidToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, err := jwtauth.FromContext(r.Context())
		if err != nil && !errors.Is(err, jwtauth.ErrNoTokenFound) {
			writeErrorBody(w, r, http.StatusUnauthorized, "unauthenticated", "invalid bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPIKey admits requests whose X-API-Key hashes to keySHA256 (hex).
// An empty keySHA256 rejects every request.
func RequireAPIKey(keySHA256 string) func(http.Handler) http.Handler {
	want := strings.ToLower(strings.TrimSpace(keySHA256))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if want == "" || key == "" {
				writeErrorBody(w, r, http.StatusUnauthorized, "unauthenticated", "missing api key")
				return
			}
			sum := sha256.Sum256([]byte(key))
			if subtle.ConstantTimeCompare([]byte(hex.EncodeToString(sum[:])), []byte(want)) != 1 {
				writeErrorBody(w, r, http.StatusUnauthorized, "unauthenticated", "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
