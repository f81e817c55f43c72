package flow

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/dalemusser/unionhub/internal/app/system/limits"
)

// ErrImageTooLarge is returned by FormImage for files over the size limit.
var ErrImageTooLarge = errors.New("image is too large")

// ParseUpload bounds the request body and parses a multipart form. A post
// without a multipart body is parsed as a plain form.
func ParseUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxUploadBody)
	err := r.ParseMultipartForm(limits.MultipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// FormImage returns the file posted as field and its size. It returns a nil
// file when nothing was chosen. The caller closes the file.
func FormImage(r *http.Request, field string) (multipart.File, int64, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	if hdr.Size == 0 {
		f.Close()
		return nil, 0, nil
	}
	if hdr.Size > limits.MaxImageSize {
		f.Close()
		return nil, 0, ErrImageTooLarge
	}
	return f, hdr.Size, nil
}
