package http

import (
	"encoding/base64"
	"net/http"

	"github.com/goccy/go-json"
)

const flashCookie = "restofinder_flash"

// Flash categories.
const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
	FlashInfo    = "info"
)

// User-facing flash messages.
const (
	msgLoginSuccess       = "Login successful!"
	msgInvalidCredentials = "Invalid credentials. Please try again."
	msgEmailRegistered    = "Email already registered. Please login."
	msgSignupSuccess      = "Signup successful! Please login."
	msgLoggedOut          = "You have been logged out."
	msgSignupInvalid      = "Please provide a name, a valid email and a password of at most 72 bytes."
	msgInternal           = "Something went wrong. Please try again."
)

// Flash is a one-time message shown on the next rendered page.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// addFlash queues f for the next page, keeping flashes already queued by r.
func addFlash(w http.ResponseWriter, r *http.Request, f Flash) {
	flashes := append(readFlashes(r), f)
	data, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns the queued flashes and clears the cookie.
func popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) > 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return flashes
}

func readFlashes(r *http.Request) []Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}
