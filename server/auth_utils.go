package server

import (
	"net/http"
)

// stateCookieName holds the signed Discord OAuth state between /verified-role
// and the Discord callback.
const stateCookieName = "clientState"

func (s *Server) setStateCookie(w http.ResponseWriter, r *http.Request, state string) error {
	maxAge := s.config.GetStateCookieMaxAge()
	signed, err := s.stateSigner.SignState(state, maxAge)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
	return nil
}

// stateFromCookie returns the verified state, or "" when the cookie is missing,
// tampered with or expired.
func (s *Server) stateFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(stateCookieName)
	if err != nil {
		return ""
	}
	state, err := s.stateSigner.VerifyState(cookie.Value)
	if err != nil {
		return ""
	}
	return state
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
