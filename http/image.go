package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"recipebook/auth"
	"recipebook/domain"
	"recipebook/errs"
	"recipebook/storage"
)

// registerImageRoutes is a helper for registering all Image routes.
func (s *Server) registerImageRoutes(r *mux.Router) {
	r.HandleFunc("/post/{id:[0-9]+}/image", s.requireAuth(s.handleUploadPostImage)).Methods("POST")
	r.HandleFunc("/avatar", s.requireAuth(s.handleUploadAvatar)).Methods("POST")

	// Serve the stored files.
	imageHandler := http.FileServer(http.Dir("./" + domain.ImagesBaseDir))
	r.PathPrefix("/" + domain.ImagesBaseDir + "/").
		Handler(http.StripPrefix("/"+domain.ImagesBaseDir+"/", imageHandler)).Methods("GET")
}

// handleUploadPostImage handles the route "POST /post/:id/image".
// It stores the uploaded file and sets it as the post's main image.
func (s *Server) handleUploadPostImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid Id format."))
		return
	}
	user := auth.GetUser(r.Context())

	img, err := s.readUpload(r, domain.ImageOwnerPost, id)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	// Setting the main image runs through the post service, which
	// also enforces that the requester owns the post. If that fails,
	// the already stored file must not stay behind.
	post, err := s.ps.Update(id, user.ID, &domain.PostUpdate{MainImage: &img.URL})
	if err != nil {
		if delErr := s.is.Delete(img); delErr != nil {
			errs.LogError(r, delErr)
		}
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(post); err != nil {
		errs.LogError(r, err)
	}
}

// handleUploadAvatar handles the route "POST /avatar".
func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUser(r.Context())

	img, err := s.readUpload(r, domain.ImageOwnerUser, user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	user.Avatar = img.URL
	if err := s.us.Update(user); err != nil {
		if delErr := s.is.Delete(img); delErr != nil {
			errs.LogError(r, delErr)
		}
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(user); err != nil {
		errs.LogError(r, err)
	}
}

// readUpload parses the multipart body, validates and stores the
// single uploaded image, and returns it.
func (s *Server) readUpload(r *http.Request, ownerType string, ownerID int) (*domain.Image, error) {
	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
		return nil, errs.Errorf(errs.EINVALID, "Invalid multipart body.")
	}
	files := r.MultipartForm.File["image"]
	if len(files) != 1 {
		return nil, errs.Errorf(errs.EINVALID, "Exactly one image is required.")
	}
	file, err := files[0].Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img := &domain.Image{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		File:      file,
		Filename:  files[0].Filename,
	}
	if err := s.is.Create(img); err != nil {
		return nil, err
	}
	return img, nil
}
