package middleware

// contextKey is a private type for context values set by this package.
// Using a custom type prevents collisions with other packages.
type contextKey string

const (
	loggerKey    = contextKey("logger")
	requestIDKey = contextKey("requestID")
)
