package ripple

import "github.com/zoobzio/pipz"

// Pipeline identities.
var (
	checkID          = pipz.NewIdentity("ripple:check", "Invokes the availability checker")
	timeoutID        = pipz.NewIdentity("ripple:timeout", "Bounds the duration of a check")
	circuitBreakerID = pipz.NewIdentity("ripple:circuit-breaker", "Rejects checks after repeated failures")
	rateLimiterID    = pipz.NewIdentity("ripple:rate-limiter", "Limits the rate of checks")
	fallbackID       = pipz.NewIdentity("ripple:fallback", "Tries alternative checkers on failure")
	errorHandlerID   = pipz.NewIdentity("ripple:error-handler", "Observes check failures")
	middlewareID     = pipz.NewIdentity("ripple:middleware", "Runs processors before the check")
	tracingID        = pipz.NewIdentity("ripple:tracing", "Opens a span around the check")
)
