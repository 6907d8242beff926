// Package http provides the HTML pages and the JSON API of the
// recommendation service.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/atinyakov/restofinder/internal/models"
	"github.com/atinyakov/restofinder/internal/service"
	"github.com/atinyakov/restofinder/internal/session"
)

// AuthService defines the authentication operations required by the handlers.
type AuthService interface {
	// Signup registers an account. Returns models.ErrDuplicateEmail if the
	// email is already registered.
	Signup(ctx context.Context, name, email, password string) (*models.User, error)
	// Login returns the matching account or service.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*models.User, error)
}

// SessionManager binds users to browser sessions.
type SessionManager interface {
	Start(ctx context.Context, w http.ResponseWriter, user *models.User) (*session.Session, error)
	Current(r *http.Request) (*session.Session, error)
	End(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// credentials is the login form and the login API body.
type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// registration is the signup form and the signup API body. bcrypt only
// accepts passwords up to 72 bytes.
type registration struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,max=72"`
}

type authPage struct {
	Flashes []Flash
	Name    string
	Email   string
}

// AuthHandler serves the login, signup and logout pages.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	Sessions    SessionManager
	Renderer    *Renderer
	Logger      *zap.Logger
}

// LoginPage renders the login form with any pending flashes.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusOK, "login.html", authPage{Flashes: popFlashes(w, r)})
}

// Login checks the submitted credentials. On success it starts a session and
// redirects to /index; otherwise it re-renders the form with an error flash.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	form := credentials{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	page := authPage{Flashes: popFlashes(w, r), Email: form.Email}

	var user *models.User
	err := validate.Struct(form)
	if err == nil {
		user, err = h.AuthService.Login(r.Context(), form.Email, form.Password)
	}
	var verr validator.ValidationErrors
	switch {
	case errors.As(err, &verr), errors.Is(err, service.ErrInvalidCredentials):
		page.Flashes = append(page.Flashes, Flash{Category: FlashDanger, Message: msgInvalidCredentials})
		h.Renderer.Render(w, http.StatusOK, "login.html", page)
		return
	case err != nil:
		h.Logger.Error("login failed", zap.Error(err))
		page.Flashes = append(page.Flashes, Flash{Category: FlashDanger, Message: msgInternal})
		h.Renderer.Render(w, http.StatusInternalServerError, "login.html", page)
		return
	}

	if _, err := h.Sessions.Start(r.Context(), w, user); err != nil {
		h.Logger.Error("failed to start session", zap.Error(err))
		page.Flashes = append(page.Flashes, Flash{Category: FlashDanger, Message: msgInternal})
		h.Renderer.Render(w, http.StatusInternalServerError, "login.html", page)
		return
	}

	addFlash(w, r, Flash{Category: FlashSuccess, Message: msgLoginSuccess})
	http.Redirect(w, r, "/index", http.StatusFound)
}

// SignupPage renders the signup form.
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.Renderer.Render(w, http.StatusOK, "signup.html", authPage{Flashes: popFlashes(w, r)})
}

// Signup registers a new account and redirects to the login page. A taken
// email also redirects to the login page, with an error flash.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	form := registration{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	page := authPage{Flashes: popFlashes(w, r), Name: form.Name, Email: form.Email}

	if err := validate.Struct(form); err != nil {
		page.Flashes = append(page.Flashes, Flash{Category: FlashDanger, Message: msgSignupInvalid})
		h.Renderer.Render(w, http.StatusBadRequest, "signup.html", page)
		return
	}

	_, err := h.AuthService.Signup(r.Context(), form.Name, form.Email, form.Password)
	switch {
	case errors.Is(err, models.ErrDuplicateEmail):
		addFlash(w, r, Flash{Category: FlashDanger, Message: msgEmailRegistered})
		http.Redirect(w, r, "/", http.StatusFound)
		return
	case err != nil:
		h.Logger.Error("signup failed", zap.Error(err))
		page.Flashes = append(page.Flashes, Flash{Category: FlashDanger, Message: msgInternal})
		h.Renderer.Render(w, http.StatusInternalServerError, "signup.html", page)
		return
	}

	addFlash(w, r, Flash{Category: FlashSuccess, Message: msgSignupSuccess})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout ends the session, if any, and redirects to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.End(r.Context(), w, r); err != nil {
		h.Logger.Warn("failed to end session", zap.Error(err))
	}
	addFlash(w, r, Flash{Category: FlashInfo, Message: msgLoggedOut})
	http.Redirect(w, r, "/", http.StatusFound)
}
