package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
)

const sessionMaxAge = 7 * 24 * 60 * 60

// NewSessionStore returns the cookie store for the site session. Secure must
// be false when the site is served over plain http, or browsers drop the
// cookie and the contact gate and portal login never see their state.
func NewSessionStore(secret []byte, secure bool) sessions.Store {
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
