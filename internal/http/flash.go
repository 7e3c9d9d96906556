package http

import (
	"net/http"
	"net/url"
)

const flashCookie = "gastos_flash"

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Message string
	Kind    string // success, warning, danger, info
}

// setFlash queues a message for the next page view. The value rides a
// short-lived cookie, URL-escaped because cookie values cannot carry
// spaces or semicolons.
func setFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads and clears the pending flash message, if any.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	kind, message := "info", raw
	for i := 0; i < len(raw); i++ {
		if raw[i] == '|' {
			kind, message = raw[:i], raw[i+1:]
			break
		}
	}
	if message == "" {
		return nil
	}
	return &Flash{Message: message, Kind: kind}
}
