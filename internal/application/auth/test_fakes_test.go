package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/task-manager/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID   map[string]domain.User
	nextID int

	// injected errors (if set, method returns error)
	getByIDErr    error
	getByEmailErr error
	createErr     error
	updateErr     error
	setImageErr   error
	deleteErr     error

	// record calls
	deleted []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]domain.User{}}
}

func (f *fakeUserRepo) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.User{}, f.getByEmailErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.User{}, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	f.nextID++
	u.ID = fmt.Sprintf("u%d", f.nextID)
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return domain.User{}, f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) SetProfileImageURL(ctx context.Context, userID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setImageErr != nil {
		return f.setImageErr
	}
	u, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.ProfileImageURL = url
	f.byID[userID] = u
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[userID]; !ok {
		return domain.ErrUserNotFound()
	}
	delete(f.byID, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

type fakeTaskRepo struct {
	mu sync.Mutex

	byUser    map[string]int64
	deleteErr error
	calls     []string
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{byUser: map[string]int64{}}
}

func (f *fakeTaskRepo) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, userID)
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	n := f.byUser[userID]
	delete(f.byUser, userID)
	return n, nil
}

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	if h.compareFn != nil {
		return h.compareFn(hash, password)
	}
	if hash == "hash:"+password {
		return nil
	}
	return errors.New("mismatch")
}

type fakeSigner struct {
	signFn  func(userID string, ttl time.Duration) (string, error)
	lastTTL time.Duration
}

func (s *fakeSigner) SignAccessToken(userID string, ttl time.Duration) (string, error) {
	s.lastTTL = ttl
	if s.signFn != nil {
		return s.signFn(userID, ttl)
	}
	return fmt.Sprintf("jwt(%s)", userID), nil
}

func (s *fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	return TokenClaims{}, nil
}

type fakeImages struct {
	mu sync.Mutex

	uploadErr error
	deleteErr error

	uploads []string // folder/filename
	bodies  []string
	deletes []string
	// deadline state seen by Delete
	deleteCtxErr error
}

func (f *fakeImages) Upload(ctx context.Context, folder string, img ImageUpload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	b, _ := io.ReadAll(img.Body)
	f.bodies = append(f.bodies, string(b))
	f.uploads = append(f.uploads, folder+"/"+img.Filename)
	return "https://cdn.test/" + folder + "/" + img.Filename, nil
}

func (f *fakeImages) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletes = append(f.deletes, key)
	f.deleteCtxErr = ctx.Err()
	return f.deleteErr
}

type fakePublisher struct {
	registeredErr error
	deletedErr    error

	registered []UserRegisteredEvent
	deleted    []UserDeletedEvent
}

func (p *fakePublisher) PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error {
	if p.registeredErr != nil {
		return p.registeredErr
	}
	p.registered = append(p.registered, evt)
	return nil
}

func (p *fakePublisher) PublishUserDeleted(ctx context.Context, evt UserDeletedEvent) error {
	if p.deletedErr != nil {
		return p.deletedErr
	}
	p.deleted = append(p.deleted, evt)
	return nil
}

/*
Service factory for tests
*/

const testInviteToken = "invite-secret"

type testDeps struct {
	users  *fakeUserRepo
	tasks  *fakeTaskRepo
	hasher *fakeHasher
	signer *fakeSigner
	images *fakeImages
	pub    *fakePublisher
	audits *[]auditEntry
}

func newSvcForTest(t *testing.T) (*Service, testDeps) {
	t.Helper()

	d := testDeps{
		users:  newFakeUserRepo(),
		tasks:  newFakeTaskRepo(),
		hasher: &fakeHasher{},
		signer: &fakeSigner{},
		images: &fakeImages{},
		pub:    &fakePublisher{},
		audits: &[]auditEntry{},
	}

	svc := NewService(d.users, d.tasks, d.hasher, d.signer, d.images, d.pub, Config{
		AdminInviteToken: testInviteToken,
	}).WithAudit(func(action string, fields map[string]string) {
		cp := map[string]string{}
		for k, v := range fields {
			cp[k] = v
		}
		*d.audits = append(*d.audits, auditEntry{action: action, fields: cp})
	})

	if svc == nil {
		t.Fatalf("svc is nil")
	}
	return svc, d
}

func imageOf(name, body string) *ImageUpload {
	return &ImageUpload{
		Filename:    name,
		ContentType: "image/png",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

/*
Small assertions
*/

func lastAudit(audits *[]auditEntry) (auditEntry, bool) {
	if audits == nil || len(*audits) == 0 {
		return auditEntry{}, false
	}
	return (*audits)[len(*audits)-1], true
}

func requireAuditAction(t *testing.T, audits *[]auditEntry, wantAction string) auditEntry {
	t.Helper()
	e, ok := lastAudit(audits)
	if !ok {
		t.Fatalf("expected audit entry, got none")
	}
	if e.action != wantAction {
		t.Fatalf("expected audit action %q, got %q", wantAction, e.action)
	}
	return e
}
