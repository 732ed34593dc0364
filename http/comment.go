package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"recipebook/auth"
	"recipebook/errs"
)

// registerCommentRoutes is a helper for registering all Comment routes.
func (s *Server) registerCommentRoutes(r *mux.Router) {
	r.HandleFunc("/post/{id:[0-9]+}/comment", s.requireAuth(s.handleCreateComment)).Methods("POST")
	r.HandleFunc("/post/{id:[0-9]+}/comments", s.handleListComments).Methods("GET")
	r.HandleFunc("/comment/{id:[0-9]+}", s.requireAuth(s.handleUpdateComment)).Methods("PUT")
	r.HandleFunc("/comment/{id:[0-9]+}", s.requireAuth(s.handleDeleteComment)).Methods("DELETE")
}

// commentBody is the json body of comment create and edit requests.
type commentBody struct {
	Content string `json:"content"`
}

// handleCreateComment handles the route "POST /post/:id/comment".
func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	var body commentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	user := auth.GetUser(r.Context())
	comment, err := s.cs.Create(id, user.ID, body.Content)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(comment); err != nil {
		errs.LogError(r, err)
	}
}

// handleListComments handles the route "GET /post/:id/comments?page=N".
// Comments come back in insertion order, annotated with whether the
// requesting user has liked each one.
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	viewerID := 0
	if user := auth.GetUser(r.Context()); user != nil {
		viewerID = user.ID
	}
	page := pageParam(r)
	comments, err := s.cs.ByPostID(id, viewerID, page)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(comments); err != nil {
		errs.LogError(r, err)
	}
}

// handleUpdateComment handles the route "PUT /comment/:id".
func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	var body commentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	user := auth.GetUser(r.Context())
	comment, err := s.cs.Update(id, user.ID, body.Content)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := json.NewEncoder(w).Encode(comment); err != nil {
		errs.LogError(r, err)
	}
}

// handleDeleteComment handles the route "DELETE /comment/:id".
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	user := auth.GetUser(r.Context())
	if err := s.cs.Delete(id, user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
