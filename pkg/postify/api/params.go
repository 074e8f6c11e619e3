package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// CountResponse is the response body for count endpoints
type CountResponse struct {
	Count int `json:"count"`
}

func urlID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		badRequest(w, r, "invalid "+param+": "+raw)
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		badRequest(w, r, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// respond writes v with 201 when created and 200 otherwise.
func respond(w http.ResponseWriter, r *http.Request, v any, created bool) {
	if created {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, v)
}
