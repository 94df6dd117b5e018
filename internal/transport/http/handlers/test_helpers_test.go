package http_handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/task-manager/internal/application/auth"
	"github.com/baechuer/task-manager/internal/infrastructure/memory"
	"github.com/baechuer/task-manager/internal/infrastructure/security"
	"github.com/baechuer/task-manager/internal/transport/http/middleware"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testEnv struct {
	users  *memory.UserRepo
	tasks  *memory.TaskRepo
	images *memory.ImageStore
	svc    *auth.Service
	h      *AuthHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:  memory.NewUserRepo(),
		tasks:  memory.NewTaskRepo(),
		images: memory.NewImageStore("http://localhost/uploads"),
	}
	env.svc = auth.NewService(
		env.users,
		env.tasks,
		security.NewBcryptHasher(bcrypt.MinCost),
		security.NewJWTSigner("test-secret"),
		env.images,
		memory.NewNoopPublisher(zerolog.Nop()),
		auth.Config{AdminInviteToken: "invite"},
	)
	env.h = NewAuthHandler(env.svc, 1<<20)
	return env
}

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadJSON decodes JSON from r into out.
func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s err=%v", string(raw), err)
	}
}

// multipartBody builds a body with a single file part under field.
func multipartBody(t *testing.T, field, filename string, data []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

// withUserCtx injects the authenticated user id the way middleware.Auth does.
func withUserCtx(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}
