package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/atinyakov/restofinder/internal/models"
	"github.com/atinyakov/restofinder/internal/service"
)

// APIHandler serves the JSON API used by the terminal client.
type APIHandler struct {
	AuthService AuthService
	Sessions    SessionManager
	Search      Recommender
	Logger      *zap.Logger
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RecommendationsResponse is the body of GET /api/recommendations.
type RecommendationsResponse struct {
	Query    string                  `json:"query"`
	SearchBy string                  `json:"search_by"`
	Results  []models.Recommendation `json:"results"`
}

// Signup handles POST /api/signup with a JSON body {name, email, password}.
func (h *APIHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req registration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "invalid request: "+validationSummary(err), http.StatusBadRequest)
		return
	}

	u, err := h.AuthService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, models.ErrDuplicateEmail) {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		h.Logger.Error("signup failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, UserResponse{ID: u.ID, Name: u.Name, Email: u.Email})
}

// Login handles POST /api/login with a JSON body {email, password}. On
// success the session cookie is set on the response.
func (h *APIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	var user *models.User
	err := validate.Struct(req)
	if err == nil {
		user, err = h.AuthService.Login(r.Context(), req.Email, req.Password)
	}
	var verr validator.ValidationErrors
	if errors.As(err, &verr) || errors.Is(err, service.ErrInvalidCredentials) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.Logger.Error("login failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if _, err := h.Sessions.Start(r.Context(), w, user); err != nil {
		h.Logger.Error("failed to start session", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// Logout handles POST /api/logout.
func (h *APIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.End(r.Context(), w, r); err != nil {
		h.Logger.Warn("failed to end session", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Recommendations handles GET /api/recommendations?query=&search_by=.
func (h *APIHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp := RecommendationsResponse{
		Query:    q.Get("query"),
		SearchBy: valueOr(q, "search_by", DefaultSearchBy),
	}
	resp.Results = h.Search.Recommend(r.Context(), resp.Query, resp.SearchBy)
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// validationSummary lists the fields that failed validation.
func validationSummary(err error) string {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		return err.Error()
	}
	out := ""
	for i, fe := range verr {
		if i > 0 {
			out += ", "
		}
		out += fe.Field() + " " + fe.Tag()
	}
	return out
}
