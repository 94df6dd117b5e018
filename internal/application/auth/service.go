package auth

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/baechuer/task-manager/internal/domain"
)

const (
	DefaultTokenTTL    = 7 * 24 * time.Hour
	DefaultImageFolder = "task-manager"

	// bound for side effects that outlive the request
	bestEffortTimeout = 5 * time.Second
)

type Service struct {
	users  UserRepo
	tasks  TaskRepo
	hasher PasswordHasher
	signer TokenSigner
	images ImageStore
	pub    EventPublisher

	tokenTTL         time.Duration
	adminInviteToken string
	imageFolder      string

	audit func(action string, fields map[string]string)
	log   zerolog.Logger
}

type Config struct {
	TokenTTL         time.Duration
	AdminInviteToken string
	ImageFolder      string
}

func NewService(
	users UserRepo,
	tasks TaskRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	images ImageStore,
	pub EventPublisher,
	cfg Config,
) *Service {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	folder := cfg.ImageFolder
	if folder == "" {
		folder = DefaultImageFolder
	}
	return &Service{
		users:  users,
		tasks:  tasks,
		hasher: hasher,
		signer: signer,
		images: images,
		pub:    pub,

		tokenTTL:         ttl,
		adminInviteToken: cfg.AdminInviteToken,
		imageFolder:      folder,

		audit: func(string, map[string]string) {},
		log:   zerolog.Nop(),
	}
}

// AuthResult is the common output of flows that hand back a fresh credential.
type AuthResult struct {
	User  domain.User
	Token string
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

func (s *Service) WithLogger(l zerolog.Logger) *Service {
	s.log = l
	return s
}

func (s *Service) issueToken(u domain.User) (AuthResult, error) {
	tok, err := s.signer.SignAccessToken(u.ID, s.tokenTTL)
	if err != nil {
		return AuthResult{}, domain.ErrTokenSignFailed(err)
	}
	return AuthResult{User: u, Token: tok}, nil
}

// detached returns a context for best-effort work that must not be
// cut short by the client going away.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), bestEffortTimeout)
}

// asDomain keeps expected domain errors and reports everything else as internal.
func asDomain(err error) error {
	if err == nil {
		return nil
	}
	if domainCode(err) != "non_domain_error" {
		return err
	}
	return domain.ErrInternal(err)
}
