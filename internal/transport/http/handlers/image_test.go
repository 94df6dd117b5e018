package http_handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/task-manager/internal/domain"
	"github.com/baechuer/task-manager/internal/transport/http/dto"
)

func uploadRequest(t *testing.T, method, path, field string, data []byte) *http.Request {
	t.Helper()
	body, ct := multipartBody(t, field, "avatar.png", data)
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", ct)
	return req
}

func TestUploadImage_StoresImage(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.h.UploadImage(rr, uploadRequest(t, http.MethodPost, "/api/auth/upload-image", "image", pngHeader))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var out dto.ImageResponse
	mustReadJSON(t, rr.Body, &out)
	require.True(t, strings.HasPrefix(out.ImageURL, "http://localhost/uploads/task-manager/"), out.ImageURL)

	key, ok := domain.ImageKeyFromURL("task-manager", out.ImageURL)
	require.True(t, ok)
	ct, data, ok := env.images.Get(key)
	require.True(t, ok)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, pngHeader, data)
}

func TestUploadImage_NoFile(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.h.UploadImage(rr, uploadRequest(t, http.MethodPost, "/api/auth/upload-image", "", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "No File Uploaded")
}

func TestUploadImage_NotMultipart(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/upload-image", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	env.h.UploadImage(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadImage_RejectsNonImage(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.h.UploadImage(rr, uploadRequest(t, http.MethodPost, "/api/auth/upload-image", "image", []byte("plain text, not a picture")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "only images are allowed")
}

func TestUploadImage_AllowsOnlyRasterTypes(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want int
	}{
		{"png", pngHeader, http.StatusOK},
		{"gif", []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\xff\xff\xff\x00\x00\x00!\xf9\x04\x01\x00\x00\x00\x00,"), http.StatusOK},
		{"jpeg", []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00"), http.StatusOK},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)

			rr := httptest.NewRecorder()
			env.h.UploadImage(rr, uploadRequest(t, http.MethodPost, "/api/auth/upload-image", "image", tc.data))

			assert.Equal(t, tc.want, rr.Code, rr.Body.String())
			if tc.want == http.StatusBadRequest {
				assert.Contains(t, rr.Body.String(), "only images are allowed")
			}
		})
	}
}

func TestUploadImage_TooLarge(t *testing.T) {
	env := newTestEnv(t)
	env.h = NewAuthHandler(env.svc, 1024)

	big := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 4096)...)
	rr := httptest.NewRecorder()
	env.h.UploadImage(rr, uploadRequest(t, http.MethodPost, "/api/auth/upload-image", "image", big))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid file")
}

func TestUpdateProfileImage_ReplacesAndPersists(t *testing.T) {
	env := newTestEnv(t)
	_, created := signUp(t, env, map[string]string{"name": "I", "email": "i@example.com", "password": "pw"})

	rr := httptest.NewRecorder()
	env.h.UpdateProfileImage(rr, withUserCtx(uploadRequest(t, http.MethodPut, "/api/auth/profile-image", "image", pngHeader), created.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var first dto.ImageResponse
	mustReadJSON(t, rr.Body, &first)

	rr = httptest.NewRecorder()
	env.h.UpdateProfileImage(rr, withUserCtx(uploadRequest(t, http.MethodPut, "/api/auth/profile-image", "image", pngHeader), created.ID))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var second dto.ImageResponse
	mustReadJSON(t, rr.Body, &second)

	assert.NotEqual(t, first.ImageURL, second.ImageURL)

	firstKey, _ := domain.ImageKeyFromURL("task-manager", first.ImageURL)
	_, _, ok := env.images.Get(firstKey)
	assert.False(t, ok, "previous image should be deleted")

	u, err := env.svc.GetProfile(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ImageURL, u.ProfileImageURL)
}

func TestUpdateProfileImage_NoFileReturnsCurrent(t *testing.T) {
	env := newTestEnv(t)
	_, created := signUp(t, env, map[string]string{
		"name": "J", "email": "j@example.com", "password": "pw", "profileImageUrl": "https://cdn.example.com/j.png",
	})

	rr := httptest.NewRecorder()
	env.h.UpdateProfileImage(rr, withUserCtx(uploadRequest(t, http.MethodPut, "/api/auth/profile-image", "", nil), created.ID))

	require.Equal(t, http.StatusOK, rr.Code)
	var out dto.ImageResponse
	mustReadJSON(t, rr.Body, &out)
	assert.Equal(t, "https://cdn.example.com/j.png", out.ImageURL)
}

func TestUpdateProfileImage_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.h.UpdateProfileImage(rr, withUserCtx(uploadRequest(t, http.MethodPut, "/api/auth/profile-image", "image", pngHeader), "ghost"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUploadsHandler_ServesStoredImage(t *testing.T) {
	env := newTestEnv(t)

	rr := httptest.NewRecorder()
	env.h.UploadImage(rr, uploadRequest(t, http.MethodPost, "/api/auth/upload-image", "image", pngHeader))
	require.Equal(t, http.StatusOK, rr.Code)
	var out dto.ImageResponse
	mustReadJSON(t, rr.Body, &out)

	r := chi.NewRouter()
	r.Get("/uploads/*", NewUploadsHandler(env.images).Get)

	path := strings.TrimPrefix(out.ImageURL, "http://localhost")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, pngHeader, rr.Body.Bytes())

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/task-manager/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
