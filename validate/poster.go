package validate

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxPosterSize is the largest poster the API accepts.
const MaxPosterSize = 2 << 20

var (
	ErrPosterType = errors.New("please select a valid image file")
	ErrPosterSize = errors.New("file size must be less than 2MB")
)

// Poster checks that the file at path is an image no larger than
// MaxPosterSize and returns its detected MIME type.
func Poster(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("poster: %w", err)
	}
	if info.IsDir() {
		return "", ErrPosterType
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("poster: %w", err)
	}
	return PosterContent(mtype.String(), info.Size())
}

// PosterContent applies the poster rules to an already detected MIME type.
func PosterContent(mime string, size int64) (string, error) {
	if !strings.HasPrefix(mime, "image/") {
		return "", ErrPosterType
	}
	if size > MaxPosterSize {
		return "", ErrPosterSize
	}
	return mime, nil
}

// DetectPoster sniffs the MIME type of in-memory poster data.
func DetectPoster(data []byte) (string, error) {
	return PosterContent(mimetype.Detect(data).String(), int64(len(data)))
}
