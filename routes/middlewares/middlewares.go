package middlewares

import (
	"net/http"

	"github.com/go-chi/oauth"
)

// Authenticated validates a bearer token issued by the login endpoint. It is
// applied per form: only forms whose settings require authentication are
// routed through it, the rest stay anonymous.
func Authenticated(secret string) func(http.Handler) http.Handler {
	return oauth.Authorize(secret, nil)
}
