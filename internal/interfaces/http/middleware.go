package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/pos-api/pkg/logger"
)

const localError = "error"

// RequestLogger abre una span por petición y registra método, ruta, status y latencia.
// Los errores 5xx incluyen la causa que dejó respondError en Locals.
func RequestLogger(log *logger.Logger) fiber.Handler {
	tracer := otel.Tracer("github.com/jhoicas/pos-api/internal/interfaces/http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		ctx, span := tracer.Start(c.UserContext(), c.Method()+" "+c.Path(), trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		c.SetUserContext(ctx)

		chainErr := c.Next()
		if chainErr != nil {
			// Deja que el ErrorHandler escriba la respuesta antes de leer el status.
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		route := c.Route().Path
		span.SetName(c.Method() + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
			span.SetStatus(codes.Error, "server error")
			if err, ok := c.Locals(localError).(error); ok {
				ev = ev.Err(err)
				span.RecordError(err)
			}
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("tenant_id", GetTenantID(c)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("http request")
		return nil
	}
}
