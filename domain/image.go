package domain

import (
	"fmt"
	"mime/multipart"
	"net/url"
)

const (
	// ImageOwnerPost expresses that an Image is a post's main image.
	ImageOwnerPost = "post"
	// ImageOwnerUser expresses that an Image is a user's avatar.
	ImageOwnerUser = "user"
	// ImagesBaseDir determines the general storage location of uploaded images.
	ImagesBaseDir = "images"
)

// Image represents an uploaded image file. Images live only in the
// filesystem, there is no dedicated table: the owning entity stores
// the image URL, and the file's location encodes the relationship.
// A post 2's main image is stored as images/post/2/<name>.jpeg.
type Image struct {
	URL         string         `json:"url"`
	OwnerType   string         `json:"-"`
	OwnerID     int            `json:"-"`
	File        multipart.File `json:"-"`
	Filename    string         `json:"-"`
	Extension   string         `json:"-"`
	ContentType string         `json:"-"`
}

// ImageService is a set of methods to manipulate and work with the Image model and respective image files.
type ImageService interface {
	Create(image *Image) error
	ByOwner(ownerType string, ownerID int) ([]Image, error)
	Delete(image *Image) error
	DeleteAll(ownerType string, ownerID int) error
}

// Path returns the url path of an image stored in the filesystem.
func (i *Image) Path() string {
	temp := url.URL{
		Path: "/" + i.RelativePath(),
	}
	return temp.String()
}

// RelativePath returns the relative path to an image stored in the filesystem.
func (i *Image) RelativePath() string {
	return fmt.Sprintf("%v/%v/%v/%v", ImagesBaseDir, i.OwnerType, i.OwnerID, i.Filename)
}
