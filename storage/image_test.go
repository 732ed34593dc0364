package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipebook/domain"
	"recipebook/errs"
)

// pngHeader is the png file signature, enough for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// chdirTemp moves the test into a throwaway working directory, so the
// image base dir never touches the real one.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("reading working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("entering temp directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})
}

// testUpload writes content to a temp file and opens it for reading.
func testUpload(t *testing.T, name string, content []byte) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing upload fixture: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening upload fixture: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

// A stored image can be removed again one file at a time, e.g. when
// the upload turns out not to belong to the requester.
func TestImageCreateDelete(t *testing.T) {
	chdirTemp(t)
	is := NewImageService()

	img := &domain.Image{
		OwnerType: domain.ImageOwnerPost,
		OwnerID:   7,
		File:      testUpload(t, "dish.png", pngHeader),
		Filename:  "dish.png",
	}
	if err := is.Create(img); err != nil {
		t.Fatalf("storing image: %v", err)
	}
	if !strings.HasSuffix(img.Filename, ".png") {
		t.Errorf("stored name lost its extension: %q", img.Filename)
	}
	if img.Filename == "dish.png" {
		t.Errorf("stored name not made unique: %q", img.Filename)
	}
	if img.URL != img.Path() {
		t.Errorf("image url: got %q, want %q", img.URL, img.Path())
	}
	if _, err := os.Stat(img.RelativePath()); err != nil {
		t.Fatalf("stored file missing: %v", err)
	}

	if err := is.Delete(img); err != nil {
		t.Fatalf("deleting image: %v", err)
	}
	if _, err := os.Stat(img.RelativePath()); !os.IsNotExist(err) {
		t.Error("file still present after delete")
	}
}

func TestImageCreateRejectsUnknownType(t *testing.T) {
	chdirTemp(t)
	is := NewImageService()

	img := &domain.Image{
		OwnerType: domain.ImageOwnerPost,
		OwnerID:   7,
		File:      testUpload(t, "notes.txt", []byte("not an image")),
		Filename:  "notes.txt",
	}
	if err := is.Create(img); errs.ErrorCode(err) != errs.EINVALID {
		t.Errorf("storing a text file: got %v, want invalid", err)
	}
}

func TestImageDeleteAll(t *testing.T) {
	chdirTemp(t)
	is := NewImageService()

	for i := 0; i < 2; i++ {
		img := &domain.Image{
			OwnerType: domain.ImageOwnerPost,
			OwnerID:   7,
			File:      testUpload(t, "dish.png", pngHeader),
			Filename:  "dish.png",
		}
		if err := is.Create(img); err != nil {
			t.Fatalf("storing image %d: %v", i, err)
		}
	}
	stored, err := is.ByOwner(domain.ImageOwnerPost, 7)
	if err != nil {
		t.Fatalf("listing images: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored images: got %d, want 2", len(stored))
	}

	if err := is.DeleteAll(domain.ImageOwnerPost, 7); err != nil {
		t.Fatalf("deleting owner images: %v", err)
	}
	stored, err = is.ByOwner(domain.ImageOwnerPost, 7)
	if err != nil {
		t.Fatalf("listing images after delete: %v", err)
	}
	if len(stored) != 0 {
		t.Errorf("images left behind: %d", len(stored))
	}
}
