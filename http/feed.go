package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"recipebook/auth"
	"recipebook/errs"
)

// defaultFeedLimit is how many entries a newsfeed request returns
// when the client doesn't ask for a specific amount.
const defaultFeedLimit = 20

// registerFeedRoutes is a helper for registering the newsfeed route.
func (s *Server) registerFeedRoutes(r *mux.Router) {
	r.HandleFunc("/newsfeed", s.requireAuth(s.handleNewsfeed)).Methods("GET")
}

// handleNewsfeed handles the route "GET /newsfeed?limit=N".
// The feed is recomputed on every request, there is no stored rank.
func (s *Server) handleNewsfeed(w http.ResponseWriter, r *http.Request) {
	limit := defaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid limit format."))
			return
		}
		limit = parsed
	}
	user := auth.GetUser(r.Context())
	entries, err := s.ns.Newsfeed(user.ID, limit)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		errs.LogError(r, err)
	}
}
