package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ccops-lab/caseflow/pkg/utils/safe"
)

type upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// readUpload pulls one multipart file field into memory, bounded by maxSize.
func readUpload(r *http.Request, field string, maxSize int64) (*upload, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxSize)

	file, header, err := r.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, goerr.New("file too large",
				goerr.V("limit", maxSize),
			)
		}
		return nil, goerr.Wrap(err, "failed to read uploaded file",
			goerr.V("field", field),
		)
	}
	defer safe.Close(r.Context(), file)

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, goerr.New("file too large",
				goerr.V("limit", maxSize),
			)
		}
		return nil, goerr.Wrap(err, "failed to read uploaded file",
			goerr.V("field", field),
		)
	}

	return &upload{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}

// requireAudio rejects uploads whose declared content type is not audio.
func (u *upload) requireAudio() error {
	if !strings.HasPrefix(u.ContentType, "audio/") {
		return goerr.New("unsupported file type, please upload a valid audio file",
			goerr.V("contentType", u.ContentType),
		)
	}
	return nil
}

// requireImage rejects uploads whose declared content type is not an image.
func (u *upload) requireImage() error {
	if !strings.HasPrefix(u.ContentType, "image/") {
		return goerr.New("unsupported file type, please upload an image (JPG, PNG, etc.)",
			goerr.V("contentType", u.ContentType),
		)
	}
	return nil
}
