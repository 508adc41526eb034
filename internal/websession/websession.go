// Package websession maps HTTP requests to navigation sessions.
//
// Browsers carry the session id in a cookie; API clients may send it in a
// header instead. Unknown or missing ids get a fresh session, and the new id
// is written back in both places.
package websession

import (
	"net/http"

	"github.com/starford/archivist/internal/navigation"
)

const (
	CookieName = "archivist_session"
	HeaderName = "X-Archivist-Session"
)

// ID returns the session id the request carries, or "".
func ID(r *http.Request) string {
	if id := r.Header.Get(HeaderName); id != "" {
		return id
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

// Resolve returns the request's session, creating one if needed.
func Resolve(w http.ResponseWriter, r *http.Request, m *navigation.Sessions) *navigation.Session {
	id := ID(r)
	s := m.Get(r.Context(), id)
	if s.ID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	w.Header().Set(HeaderName, s.ID)
	return s
}
