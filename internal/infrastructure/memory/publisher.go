package memory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/baechuer/task-manager/internal/application/auth"
)

// NoopPublisher logs events instead of sending them. Used when no broker is configured.
type NoopPublisher struct {
	log zerolog.Logger
}

func NewNoopPublisher(log zerolog.Logger) *NoopPublisher { return &NoopPublisher{log: log} }

func (p *NoopPublisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	p.log.Debug().Str("user_id", evt.UserID).Str("role", evt.Role).Msg("[noop-pub] user.registered")
	return nil
}

func (p *NoopPublisher) PublishUserDeleted(ctx context.Context, evt auth.UserDeletedEvent) error {
	p.log.Debug().Str("user_id", evt.UserID).Int64("tasks_deleted", evt.TasksDeleted).Msg("[noop-pub] user.deleted")
	return nil
}
