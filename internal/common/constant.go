package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the bearer token
	// on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token value in the Authorization header.
	BearerPrefix = "Bearer "
)
