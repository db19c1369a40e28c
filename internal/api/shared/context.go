package shared

// ContextKey is the type used for context values stored by the API layer.
type ContextKey string

// Context keys for request-scoped values.
const (
	// UserContextKey is the context key under which the authenticated
	// user (*domain.User) is stored by the auth middleware.
	UserContextKey ContextKey = "currentUser"
)
