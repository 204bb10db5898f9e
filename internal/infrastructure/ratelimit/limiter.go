// Package ratelimit arma el limiter de Fiber para /api/auth. Con Redis los contadores se comparten entre réplicas.
package ratelimit

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	redisstorage "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/sweetshop-api/pkg/config"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

const (
	window      = time.Minute
	pingTimeout = 3 * time.Second
)

// New devuelve el handler del limiter (max peticiones por IP y minuto) y la función que libera Redis.
// Si Redis no responde al arrancar se usa la memoria del proceso.
func New(ctx context.Context, max int, rc config.RedisConfig, log *logger.Logger) (fiber.Handler, func()) {
	cfg := limiter.Config{
		Max:        max,
		Expiration: window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many requests"})
		},
	}
	closeFn := func() {}

	if rc.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", rc.Addr).Msg("redis no disponible, rate limit en memoria")
			_ = client.Close()
		} else {
			store := redisstorage.NewFromConnection(client)
			cfg.Storage = store
			closeFn = func() { _ = store.Close() }
		}
	}
	return limiter.New(cfg), closeFn
}
