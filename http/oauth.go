package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"recipebook/domain"
	"recipebook/errs"
)

// registerOAuthRoutes is a helper for registering all OAuth routes.
func (s *Server) registerOAuthRoutes(r *mux.Router) {
	r.HandleFunc("/oauth/github", s.handleOAuthRedirect).Methods("GET")
	r.HandleFunc("/oauth/github/callback", s.handleOAuthCallback).Methods("GET")
}

// handleOAuthRedirect handles the route "GET /oauth/github".
// It sends the client off to GitHub's consent page.
func (s *Server) handleOAuthRedirect(w http.ResponseWriter, r *http.Request) {
	url := s.github.AuthCodeURL("state")
	http.Redirect(w, r, url, http.StatusFound)
}

// githubUser is the part of GitHub's user payload we care about.
type githubUser struct {
	ID    int    `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// handleOAuthCallback handles the route "GET /oauth/github/callback".
// It exchanges the code for a token, fetches the GitHub identity, and
// signs in the linked user. First-time identities get a password-less
// local account created on the spot.
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Missing oauth code."))
		return
	}
	token, err := s.github.Exchange(r.Context(), code)
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "OAuth exchange failed."))
		return
	}

	client := s.github.Client(r.Context(), token)
	resp, err := client.Get("https://api.github.com/user")
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	defer resp.Body.Close()
	var ghUser githubUser
	if err := json.NewDecoder(resp.Body).Decode(&ghUser); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	existing, err := s.os.Find(ghUser.ID, "github")
	if err == nil {
		if err := s.signIn(w, r.Context(), existing.User); err != nil {
			errs.ReturnError(w, r, err)
			return
		}
		json.NewEncoder(w).Encode(existing.User)
		return
	}
	if errs.ErrorCode(err) != errs.ENOTFOUND {
		errs.ReturnError(w, r, err)
		return
	}

	// No linked account yet, create one.
	user := domain.User{
		Username:         fmt.Sprintf("%s-github", ghUser.Login),
		Name:             ghUser.Name,
		Email:            ghUser.Email,
		NoPasswordNeeded: true,
	}
	if err := s.us.Create(&user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	oauth := domain.OAuth{
		UserID:         user.ID,
		Provider:       "github",
		ProviderUserID: ghUser.ID,
	}
	if err := s.os.Create(&oauth); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	if err := s.signIn(w, r.Context(), &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&user); err != nil {
		errs.LogError(r, err)
	}
}
