package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"

	"recipebook/auth"
	"recipebook/crud"
	"recipebook/domain"
	"recipebook/errs"
)

// Server provides the http functionality of the app, namely routing,
// request handling, and middleware. It performs authentication and
// authorization before handing things over to the crud services.
type Server struct {
	router *mux.Router
	us     domain.UserService
	ps     domain.PostService
	cs     domain.CommentService
	ls     domain.LikeService
	fs     domain.FollowService
	ns     domain.FeedService
	is     domain.ImageService
	os     domain.OAuthService
	github oauth2.Config
}

// NewServer returns a new instance of the server, registers all
// necessary routes and gives their handlers access to the services
// passed in.
func NewServer(isProd bool, csrfKey string, github oauth2.Config, services *crud.Services, is domain.ImageService) *Server {
	s := &Server{
		router: mux.NewRouter(),
		us:     services.User,
		ps:     services.Post,
		cs:     services.Comment,
		ls:     services.Like,
		fs:     services.Follow,
		ns:     services.Feed,
		is:     is,
		os:     services.OAuth,
		github: github,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)
	s.registerOAuthRoutes(s.router)

	// Register routes of the crud system.
	s.registerPostRoutes(s.router)
	s.registerCommentRoutes(s.router)
	s.registerLikeRoutes(s.router)
	s.registerFollowRoutes(s.router)
	s.registerFeedRoutes(s.router)
	s.registerImageRoutes(s.router)

	// Middleware that runs on every request.
	csrfMw := csrf.Protect([]byte(csrfKey), csrf.Secure(isProd), csrf.Path("/"))
	s.router.Use(csrfMw, setContentTypeJSON, s.authUser)
	return s
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The authUser middleware looks up the user behind the request's
// remember token cookie, if any, and stores it in the request context.
func (s *Server) authUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("remember_token")
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.ByRemember(cookie.Value)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests that carry no authenticated user.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := auth.GetUser(r.Context())
		if user == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in."))
			return
		}
		next.ServeHTTP(w, r)
	}
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), s.router))
}
