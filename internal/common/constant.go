package common

const (
	// AuthorizationHeaderName is the HTTP header that carries the session token.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"
)
