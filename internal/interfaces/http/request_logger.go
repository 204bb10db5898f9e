package http

import (
	"github.com/gofiber/contrib/fiberzerolog"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// RequestLogger registra una línea por petición con el id de requestid. Debe ir después de requestid.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return fiberzerolog.New(fiberzerolog.Config{
		Logger: log.Zerolog(),
		Fields: []string{
			fiberzerolog.FieldMethod,
			fiberzerolog.FieldPath,
			fiberzerolog.FieldStatus,
			fiberzerolog.FieldLatency,
			fiberzerolog.FieldIP,
			fiberzerolog.FieldRequestID,
			fiberzerolog.FieldError,
		},
		Messages: []string{"request", "request", "request"},
		// 5xx, 4xx, resto
		Levels: []zerolog.Level{zerolog.WarnLevel, zerolog.InfoLevel, zerolog.InfoLevel},
	})
}
