package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"recipebook/auth"
	"recipebook/errs"
)

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	r.HandleFunc("/post/{id:[0-9]+}/like", s.requireAuth(s.handleLikePost)).Methods("POST")
	r.HandleFunc("/post/{id:[0-9]+}/like", s.requireAuth(s.handleUnlikePost)).Methods("DELETE")
	r.HandleFunc("/post/{id:[0-9]+}/likes", s.handlePostLikers).Methods("GET")
	r.HandleFunc("/comment/{id:[0-9]+}/like", s.requireAuth(s.handleLikeComment)).Methods("POST")
	r.HandleFunc("/comment/{id:[0-9]+}/like", s.requireAuth(s.handleUnlikeComment)).Methods("DELETE")
}

// likeResponse is the json body returned by all four like toggles.
type likeResponse struct {
	TotalLike int `json:"total_like"`
}

// handleLikePost handles the route "POST /post/:id/like".
func (s *Server) handleLikePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	user := auth.GetUser(r.Context())
	total, err := s.ls.LikePost(id, user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&likeResponse{TotalLike: total}); err != nil {
		errs.LogError(r, err)
	}
}

// handleUnlikePost handles the route "DELETE /post/:id/like".
func (s *Server) handleUnlikePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	user := auth.GetUser(r.Context())
	total, err := s.ls.UnlikePost(id, user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(&likeResponse{TotalLike: total}); err != nil {
		errs.LogError(r, err)
	}
}

// handleLikeComment handles the route "POST /comment/:id/like".
func (s *Server) handleLikeComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	user := auth.GetUser(r.Context())
	total, err := s.ls.LikeComment(id, user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&likeResponse{TotalLike: total}); err != nil {
		errs.LogError(r, err)
	}
}

// handleUnlikeComment handles the route "DELETE /comment/:id/like".
func (s *Server) handleUnlikeComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	user := auth.GetUser(r.Context())
	total, err := s.ls.UnlikeComment(id, user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(&likeResponse{TotalLike: total}); err != nil {
		errs.LogError(r, err)
	}
}

// handlePostLikers handles the route "GET /post/:id/likes?page=N".
// It returns one page of the users who like the post.
func (s *Server) handlePostLikers(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	page := pageParam(r)
	likers, err := s.ls.LikersByPostID(id, page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(likers); err != nil {
		errs.LogError(r, err)
	}
}

// pageParam parses the "page" query parameter, defaulting to the first page.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page == 0 {
		return 1
	}
	return page
}
