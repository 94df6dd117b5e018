//go:build integration

package infra

import (
	"fmt"
	"os"
)

// Env carries externally provided endpoints. Empty fields are started
// as throwaway containers instead.
type Env struct {
	PostgresDSN string
	MongoURI    string
	RedisAddr   string
	RabbitURL   string
}

func LoadEnv() Env {
	return Env{
		PostgresDSN: os.Getenv("IT_PG_DSN"),
		MongoURI:    os.Getenv("IT_MONGO_URI"),
		RedisAddr:   os.Getenv("IT_REDIS_ADDR"),
		RabbitURL:   os.Getenv("IT_RABBIT_URL"),
	}
}

func (e Env) String() string {
	return fmt.Sprintf("Env{PostgresDSN=%q MongoURI=%q RedisAddr=%q RabbitURL=%q}",
		e.PostgresDSN, e.MongoURI, e.RedisAddr, e.RabbitURL)
}
