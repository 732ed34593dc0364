package storage

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid/v5"

	"recipebook/domain"
	"recipebook/errs"
)

// MaxUploadSize determines the maximum filesize of an image to be uploaded.
const MaxUploadSize int64 = 5 << 20 // 5 Megabyte

// ImageService stores uploaded images as files in the filesystem.
// It implements the domain.ImageService interface.
type ImageService struct {
	imageValidator
}

// imageValidator runs validations and normalizations on incoming images.
// On success, it passes the data on to imageFiles.
// Otherwise, it returns the error of the validation that has failed.
type imageValidator struct {
	imageFiles
}

// imageFiles reads and writes the actual image files.
type imageFiles struct{}

// NewImageService returns an instance of ImageService.
func NewImageService() *ImageService {
	return &ImageService{
		imageValidator{
			imageFiles{},
		},
	}
}

// Ensure the ImageService struct properly implements the domain.ImageService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.ImageService = &ImageService{}

// Create runs validations needed for storing a new image file.
func (iv *imageValidator) Create(img *domain.Image) error {
	err := runImageValFns(img,
		iv.extensionValid,
		iv.contentTypeValid,
		iv.contentTypeExtensionMatch,
		iv.belowMaxSize,
		iv.storedNameUnique,
	)
	if err != nil {
		return err
	}
	return iv.imageFiles.Create(img)
}

// runImageValFns runs any number of functions of type imageValFn on the passed in Image object.
// If none of them returns an error, it returns nil. Otherwise, it returns the respective error.
func runImageValFns(img *domain.Image, fns ...imageValFn) error {
	for _, fn := range fns {
		if err := fn(img); err != nil {
			return err
		}
	}
	return nil
}

// An imageValFn is any function that takes in a pointer to a domain.Image object and returns an error.
type imageValFn func(img *domain.Image) error

// belowMaxSize makes sure that the image file does not exceed the upload size limit.
func (iv *imageValidator) belowMaxSize(img *domain.Image) error {
	size, err := img.File.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if err = resetReaderPosition(img); err != nil {
		return err
	}
	if size > MaxUploadSize {
		return errs.Errorf(
			errs.EINVALID,
			"Image %s exceeds upload size limit of %dMB.", img.Filename, MaxUploadSize/1000000,
		)
	}
	return nil
}

// contentTypeValid sniffs the file's content type and makes sure it's jpeg or png.
func (iv *imageValidator) contentTypeValid(img *domain.Image) error {
	buffer := make([]byte, 512)
	_, err := img.File.Read(buffer)
	if err != nil {
		return err
	}
	if err = resetReaderPosition(img); err != nil {
		return err
	}
	contentType := http.DetectContentType(buffer)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return errs.Errorf(
			errs.EINVALID,
			"Image %s invalid content-type, must be image/jpeg or image/png.", img.Filename,
		)
	}
	img.ContentType = contentType
	return nil
}

// contentTypeExtensionMatch makes sure the sniffed content type agrees with the file extension.
func (iv *imageValidator) contentTypeExtensionMatch(img *domain.Image) error {
	contentType := strings.TrimPrefix(img.ContentType, "image/")
	ext := strings.TrimPrefix(img.Extension, ".")
	if contentType != ext {
		return errs.Errorf(
			errs.EINVALID,
			"Image %s content-type %s does not match extension %s.", img.Filename, img.ContentType, img.Extension,
		)
	}
	return nil
}

// extensionValid normalizes the file extension and rejects anything but jpeg and png.
func (iv *imageValidator) extensionValid(img *domain.Image) error {
	ext := filepath.Ext(img.Filename)
	ext = strings.ToLower(ext)
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return errs.Errorf(
			errs.EINVALID,
			"Image %s invalid extension, must be .jpeg or .png.", img.Filename,
		)
	}
	if ext == ".jpg" {
		ext = ".jpeg"
	}
	img.Extension = ext
	return nil
}

// storedNameUnique replaces the client-chosen filename with a fresh
// uuid, so two uploads can never collide on disk.
func (iv *imageValidator) storedNameUnique(img *domain.Image) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	img.Filename = id.String() + img.Extension
	return nil
}

// resetReaderPosition seeks back to the beginning of the file, so that subsequent reads will work.
func resetReaderPosition(img *domain.Image) error {
	_, err := img.File.Seek(0, io.SeekStart)
	return err
}

// Create writes the image file into its owner's directory.
func (ic *imageFiles) Create(img *domain.Image) error {
	path, err := ic.mkImagePath(img.OwnerType, img.OwnerID)
	if err != nil {
		return err
	}
	dst, err := os.Create(path + img.Filename)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, img.File)
	if err != nil {
		return err
	}
	img.URL = img.Path()
	return nil
}

// ByOwner lists the images stored for an owner.
func (ic *imageFiles) ByOwner(ownerType string, ownerID int) ([]domain.Image, error) {
	path := ic.imagePath(ownerType, ownerID)
	imgStrings, err := filepath.Glob(path + "*")
	if err != nil {
		return nil, err
	}
	ret := make([]domain.Image, len(imgStrings))
	for i := range ret {
		name := strings.Replace(imgStrings[i], path, "", 1)
		ret[i] = domain.Image{
			OwnerType: ownerType,
			OwnerID:   ownerID,
			Filename:  name,
		}
		ret[i].URL = ret[i].Path()
	}
	return ret, nil
}

// Delete removes a single stored image file.
func (ic *imageFiles) Delete(img *domain.Image) error {
	return os.Remove(img.RelativePath())
}

// DeleteAll removes every image stored for an owner, e.g. when the
// owning post is deleted.
func (ic *imageFiles) DeleteAll(ownerType string, ownerID int) error {
	return os.RemoveAll(ic.imagePath(ownerType, ownerID))
}

func (ic *imageFiles) mkImagePath(ownerType string, ownerID int) (string, error) {
	imagePath := ic.imagePath(ownerType, ownerID)
	err := os.MkdirAll(imagePath, 0755)
	if err != nil {
		return "", err
	}
	return imagePath, nil
}

func (ic *imageFiles) imagePath(ownerType string, ownerID int) string {
	return fmt.Sprintf("%v/%v/%v/", domain.ImagesBaseDir, ownerType, ownerID)
}
