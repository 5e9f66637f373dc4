package session

import (
	"net/http"
	"time"
)

const CookieName = "__Host-Http-Session"

// SetCookie issues the session cookie to the client. SameSite is Lax
// rather than Strict: the OAuth provider callback is a cross-site
// navigation and Strict would strip the cookie from it.
func SetCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/", // required for __Host-
		MaxAge:   int(Lifetime / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
