//go:build integration

package infra

import (
	"context"
	"database/sql"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func ResetPostgres(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `TRUNCATE TABLE tasks, users CASCADE;`); err != nil {
		return fmt.Errorf("reset postgres: %w", err)
	}
	return nil
}

func ResetMongo(ctx context.Context, db *mongo.Database) error {
	if err := db.Drop(ctx); err != nil {
		return fmt.Errorf("reset mongo: %w", err)
	}
	return nil
}

func ResetRedis(ctx context.Context, rdb *goredis.Client) error {
	return rdb.FlushDB(ctx).Err()
}
