package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"command-center/internal/utils/platformerrors"
)

// forwardedTokenHeader carries the caller's upstream access token, injected by
// the app proxy in front of this service.
const forwardedTokenHeader = "x-forwarded-access-token"

const identityKey = "requestIdentity"

// RequestIdentity is the per-request caller identity. Token is the forwarded
// upstream access token, empty for unauthenticated requests.
type RequestIdentity struct {
	Token         string
	Authenticated bool
}

// ForwardedToken extracts the forwarded access token into the gin context. It
// never aborts; enforcement is RequireAuthenticated's job. The token value is
// never logged.
func ForwardedToken(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(forwardedTokenHeader)
		identity := RequestIdentity{
			Token:         token,
			Authenticated: token != "",
		}
		c.Set(identityKey, identity)

		logger.Debug().
			Bool("authenticated", identity.Authenticated).
			Str("path", c.Request.URL.Path).
			Msg("request identity resolved")

		c.Next()
	}
}

// IdentityFromContext returns the identity stored by ForwardedToken.
func IdentityFromContext(c *gin.Context) RequestIdentity {
	if val, ok := c.Get(identityKey); ok {
		if identity, ok := val.(RequestIdentity); ok {
			return identity
		}
	}
	return RequestIdentity{}
}

// RequireAuthenticated aborts with 401 when the request carries no forwarded
// token, unless dev mode waives per-user authentication.
func RequireAuthenticated(devMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := IdentityFromContext(c)
		if !identity.Authenticated && !devMode {
			platformerrors.WriteUnauthorized(c, "Authentication required. No user token found.")
			return
		}
		c.Next()
	}
}
