//go:build integration

package cases

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/task-manager/internal/application/auth"
	"github.com/baechuer/task-manager/internal/config"
	pg "github.com/baechuer/task-manager/internal/infrastructure/db/postgres"
	"github.com/baechuer/task-manager/internal/infrastructure/memory"
	"github.com/baechuer/task-manager/internal/infrastructure/security"
	itinfra "github.com/baechuer/task-manager/test/integration/infra"
)

type Deps struct {
	DB *sql.DB

	Users  *pg.UserRepo
	Tasks  *pg.TaskRepo
	Images *memory.ImageStore
	Signer *security.JWTSigner

	Svc *auth.Service
}

// MustNewPostgresDeps wires the service against a real Postgres with a
// migrated, empty schema.
func MustNewPostgresDeps(t *testing.T, pub auth.EventPublisher) *Deps {
	t.Helper()

	dsn := itinfra.PostgresDSN(t, itinfra.LoadEnv())

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	db, err := config.NewDB(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, pg.EnsureSchema(ctx, db))
	require.NoError(t, itinfra.ResetPostgres(ctx, db))

	if pub == nil {
		pub = memory.NewNoopPublisher(zerolog.Nop())
	}

	d := &Deps{
		DB:     db,
		Users:  pg.NewUserRepo(db),
		Tasks:  pg.NewTaskRepo(db),
		Images: memory.NewImageStore("http://localhost/uploads"),
		Signer: security.NewJWTSigner("integration-test-secret"),
	}
	d.Svc = auth.NewService(
		d.Users,
		d.Tasks,
		security.NewBcryptHasher(bcrypt.MinCost),
		d.Signer,
		d.Images,
		pub,
		auth.Config{AdminInviteToken: "it-invite"},
	)
	return d
}
