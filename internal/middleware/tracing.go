package middleware

import (
	"fmt"
	"strings"

	"bailanysta/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens a server span per request. Once the handler has run the
// span is renamed to the matched route and tagged with the feed view, post,
// profile or search it served, plus the viewer when one signed in.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.Tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.path", c.Path()),
				attribute.String("http.ip", c.IP()),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		if requestID := c.Locals("requestid"); requestID != nil {
			span.SetAttributes(attribute.String("request.id", fmt.Sprintf("%v", requestID)))
		}
		c.Set("X-Trace-ID", traceID)
		c.SetUserContext(ctx)

		err := c.Next()

		route := c.Route().Path
		span.SetName(c.Method() + " " + route)
		span.SetAttributes(attribute.String("http.route", route))
		span.SetAttributes(domainAttributes(c, route)...)
		if viewer := ViewerID(c); viewer != 0 {
			span.SetAttributes(attribute.Int64("viewer.id", int64(viewer)))
		}

		status := c.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if err != nil {
			span.RecordError(err)
		}
		if err != nil || status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		}
		return err
	}
}

// domainAttributes names what a feed API request touched.
func domainAttributes(c *fiber.Ctx, route string) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	switch {
	case strings.HasPrefix(route, "/api/feed/"):
		attrs = append(attrs,
			attribute.String("feed.view", strings.TrimPrefix(route, "/api/feed/")),
			attribute.Bool("feed.has_cursor", c.Query("cursor") != ""),
		)
	case route == "/api/posts" || route == "/api/posts/":
		if author := c.Query("author"); author != "" {
			attrs = append(attrs,
				attribute.String("feed.view", "author"),
				attribute.String("feed.author", author),
				attribute.Bool("feed.has_cursor", c.Query("cursor") != ""),
			)
		}
	case route == "/api/search":
		attrs = append(attrs, attribute.Int("search.query_length", len(c.Query("q"))))
	}
	if id := c.Params("id"); id != "" {
		attrs = append(attrs, attribute.String("post.id", id))
	}
	if username := c.Params("username"); username != "" {
		attrs = append(attrs, attribute.String("profile.username", username))
	}
	return attrs
}
