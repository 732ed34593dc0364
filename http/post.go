package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"recipebook/auth"
	"recipebook/domain"
	"recipebook/errs"
)

// registerPostRoutes is a helper for registering all Post routes.
func (s *Server) registerPostRoutes(r *mux.Router) {
	r.HandleFunc("/post", s.requireAuth(s.handleCreatePost)).Methods("POST")
	r.HandleFunc("/post/{id:[0-9]+}", s.handleGetPost).Methods("GET")
	r.HandleFunc("/post/{id:[0-9]+}", s.requireAuth(s.handleUpdatePost)).Methods("PUT")
	r.HandleFunc("/post/{id:[0-9]+}", s.requireAuth(s.handleDeletePost)).Methods("DELETE")
	r.HandleFunc("/user/{id:[0-9]+}/posts", s.handleUserPosts).Methods("GET")
	r.HandleFunc("/search", s.handleSearchPosts).Methods("GET")
}

// handleCreatePost handles the route "POST /post".
// It reads the recipe from the json body and stores it for the authed user.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var post domain.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	user := auth.GetUser(r.Context())
	post.UserID = user.ID

	if err := s.ps.Create(&post); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&post); err != nil {
		errs.LogError(r, err)
	}
}

// handleGetPost handles the route "GET /post/:id".
// Every successful fetch counts as one view on the post.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	post, err := s.ps.ByID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}

// handleUpdatePost handles the route "PUT /post/:id".
// Only the author may edit; the ownership check lives in the service.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	var upd domain.PostUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	user := auth.GetUser(r.Context())
	post, err := s.ps.Update(id, user.ID, &upd)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeletePost handles the route "DELETE /post/:id".
// The service removes the post with its comments and like edges; the
// post's stored images go with it here.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	user := auth.GetUser(r.Context())
	if err := s.ps.Delete(id, user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.is.DeleteAll(domain.ImageOwnerPost, id); err != nil {
		errs.LogError(r, err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUserPosts handles the route "GET /user/:id/posts".
func (s *Server) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	posts, err := s.ps.ByUserID(id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(posts); err != nil {
		errs.LogError(r, err)
	}
}

// handleSearchPosts handles the route "GET /search?q=...&page=N".
func (s *Server) handleSearchPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	page := pageParam(r)
	results, err := s.ps.Search(query, page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(results); err != nil {
		errs.LogError(r, err)
	}
}
