package ripple

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used when WithTracing is given a nil tracer.
const TracerName = "github.com/zoobzio/ripple"

// Option configures the check pipeline of an AsyncValidator.
// Pipeline options wrap the checker with middleware for timeouts,
// circuit breaking, rate limiting and observation.
//
// Instance configuration (debounce, scheduler, metrics, etc.) is handled via
// chainable methods on the AsyncValidator before calling Start().
type Option[T any] func(pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]]

// buildPipeline wraps a terminal with pipeline options.
func buildPipeline[T any](terminal pipz.Chainable[*Request[T]], opts []Option[T]) pipz.Chainable[*Request[T]] {
	pipeline := terminal
	for _, opt := range opts {
		pipeline = opt(pipeline)
	}
	return pipeline
}

// checkTerminal invokes checker and records its answer on the request.
func checkTerminal[T any](checker Checker[T]) pipz.Chainable[*Request[T]] {
	return UseChecker(checkID, checker)
}

// -----------------------------------------------------------------------------
// Pipeline Options - Wrapping (With*)
// -----------------------------------------------------------------------------

// WithTimeout wraps the pipeline with a timeout.
// A check that takes longer fails and yields AvailabilityUnknown.
func WithTimeout[T any](d time.Duration) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewTimeout(timeoutID, p, d)
	}
}

// WithFallback wraps the pipeline with fallback processors.
// If the primary checker fails, each fallback is tried in order until one succeeds.
func WithFallback[T any](fallbacks ...pipz.Chainable[*Request[T]]) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		all := append([]pipz.Chainable[*Request[T]]{p}, fallbacks...)
		return pipz.NewFallback(fallbackID, all...)
	}
}

// WithCircuitBreaker wraps the pipeline with circuit breaker protection.
// After 'failures' consecutive failures, checks are rejected immediately
// (and reported as AvailabilityUnknown) until 'recovery' has passed.
func WithCircuitBreaker[T any](failures int, recovery time.Duration) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewCircuitBreaker(circuitBreakerID, p, failures, recovery)
	}
}

// WithRateLimit places a token bucket in front of the checker.
// When tokens are exhausted, checks wait for availability until their
// context ends.
func WithRateLimit[T any](rate float64, burst int) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewRateLimiter[*Request[T]](rateLimiterID, rate, burst, p)
	}
}

// WithRateLimitDrop is WithRateLimit, but a check beyond the limit fails
// at once and yields AvailabilityUnknown.
func WithRateLimitDrop[T any](rate float64, burst int) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewRateLimiter[*Request[T]](rateLimiterID, rate, burst, p).SetMode("drop")
	}
}

// WithErrorHandler adds error observation to the pipeline.
// Errors are passed to the handler for logging, metrics, or alerting,
// but the error still propagates.
func WithErrorHandler[T any](handler pipz.Chainable[*pipz.Error[*Request[T]]]) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.NewHandle(errorHandlerID, p, handler)
	}
}

// WithMiddleware wraps the pipeline with a sequence of processors.
// Processors execute in order, with the wrapped pipeline (checker) last.
func WithMiddleware[T any](processors ...pipz.Chainable[*Request[T]]) Option[T] {
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		all := make([]pipz.Chainable[*Request[T]], 0, len(processors)+1)
		all = append(all, processors...)
		all = append(all, p)
		return pipz.NewSequence(middlewareID, all...)
	}
}

// WithTracing opens an OpenTelemetry span around every check.
// A nil tracer uses the global provider.
func WithTracing[T any](tracer trace.Tracer) Option[T] {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return func(p pipz.Chainable[*Request[T]]) pipz.Chainable[*Request[T]] {
		return pipz.Apply(tracingID, func(ctx context.Context, req *Request[T]) (*Request[T], error) {
			ctx, span := tracer.Start(ctx, "ripple.check",
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("ripple.check_id", req.ID),
					attribute.Int64("ripple.generation", int64(req.Generation)), //nolint:gosec // generations stay far below MaxInt64
				),
			)
			defer span.End()

			out, err := p.Process(ctx, req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return out, err
			}
			span.SetAttributes(attribute.Bool("ripple.available", out.Available))
			span.SetStatus(codes.Ok, "")
			return out, nil
		})
	}
}

// -----------------------------------------------------------------------------
// Middleware Processors (Use*)
// -----------------------------------------------------------------------------
// These create processors for use inside WithMiddleware or WithFallback.

// UseApply creates a processor that can transform the request and fail.
func UseApply[T any](identity pipz.Identity, fn func(context.Context, *Request[T]) (*Request[T], error)) pipz.Chainable[*Request[T]] {
	return pipz.Apply(identity, fn)
}

// UseEffect creates a processor that performs a side effect.
// The request passes through unchanged.
func UseEffect[T any](identity pipz.Identity, fn func(context.Context, *Request[T]) error) pipz.Chainable[*Request[T]] {
	return pipz.Effect(identity, fn)
}

// UseTransform creates a processor that transforms the request and cannot fail.
func UseTransform[T any](identity pipz.Identity, fn func(context.Context, *Request[T]) *Request[T]) pipz.Chainable[*Request[T]] {
	return pipz.Transform(identity, fn)
}

// UseChecker creates a processor that answers the request with checker.
// Use it to build fallbacks from alternative checkers.
func UseChecker[T any](identity pipz.Identity, checker Checker[T]) pipz.Chainable[*Request[T]] {
	return pipz.Apply(identity, func(ctx context.Context, req *Request[T]) (*Request[T], error) {
		available, err := checker.Check(ctx, req.Value)
		if err != nil {
			return req, err
		}
		req.Available = available
		return req, nil
	})
}
