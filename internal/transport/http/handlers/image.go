package http_handlers

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"slices"

	"github.com/gabriel-vasile/mimetype"

	"github.com/baechuer/task-manager/internal/application/auth"
	"github.com/baechuer/task-manager/internal/domain"
	"github.com/baechuer/task-manager/internal/transport/http/dto"
	"github.com/baechuer/task-manager/internal/transport/http/middleware"
	"github.com/baechuer/task-manager/internal/transport/http/response"
)

const imageField = "image"

// sniffLen is how much of the upload is read to detect its type.
const sniffLen = 3072

// Raster formats only. SVG can carry script and is served back as-is.
var allowedImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// UploadImage handles POST /api/auth/upload-image
func (h *AuthHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	img, closeFn, err := h.readImage(w, r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if img == nil {
		response.WriteError(w, r, domain.ErrMissingFile())
		return
	}
	defer closeFn()

	url, err := h.svc.UploadImage(r.Context(), img)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.ImageResponse{ImageURL: url})
}

// UpdateProfileImage handles PUT /api/auth/profile-image
func (h *AuthHandler) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	img, closeFn, err := h.readImage(w, r)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if img != nil {
		defer closeFn()
	}

	url, err := h.svc.UpdateProfileImage(r.Context(), uid, img)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	if img != nil {
		middleware.ProfileEventsTotal.WithLabelValues("image").Inc()
	}
	response.OK(w, dto.ImageResponse{ImageURL: url})
}

// readImage extracts the "image" part of a multipart body.
// A request without that part yields (nil, nil, nil).
func (h *AuthHandler) readImage(w http.ResponseWriter, r *http.Request) (*auth.ImageUpload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig), errors.Is(err, multipart.ErrMessageTooLarge):
			return nil, nil, domain.ErrInvalidFile("file too large")
		case errors.Is(err, http.ErrNotMultipart):
			return nil, nil, nil
		default:
			return nil, nil, domain.ErrInvalidFile("malformed multipart body")
		}
	}

	file, fh, err := r.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil, nil
		}
		return nil, nil, domain.ErrInvalidFile("unreadable file")
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		_ = file.Close()
		return nil, nil, domain.ErrInvalidFile("unreadable file")
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !slices.ContainsFunc(allowedImageTypes, detected.Is) {
		_ = file.Close()
		return nil, nil, domain.ErrInvalidFile("only images are allowed")
	}

	img := &auth.ImageUpload{
		Filename:    fh.Filename,
		ContentType: detected.String(),
		Size:        fh.Size,
		Body:        io.MultiReader(bytes.NewReader(head), file),
	}
	return img, func() { _ = file.Close() }, nil
}
