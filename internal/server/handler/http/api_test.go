package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/atinyakov/restofinder/internal/models"
	"github.com/atinyakov/restofinder/internal/service"
	"github.com/atinyakov/restofinder/internal/session"
)

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAPIHandler_Signup(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "missing password",
			body:           `{"name":"Asha","email":"asha@example.com"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "Password required",
		},
		{
			name:           "duplicate email",
			body:           `{"name":"Asha","email":"asha@example.com","password":"pw"}`,
			service:        &fakeAuthService{signupErr: models.ErrDuplicateEmail},
			expectedCode:   http.StatusConflict,
			expectedSubstr: "email already registered",
		},
		{
			name:           "store failure",
			body:           `{"name":"Asha","email":"asha@example.com","password":"pw"}`,
			service:        &fakeAuthService{signupErr: errors.New("db down")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
		{
			name:           "created",
			body:           `{"name":"Asha","email":"asha@example.com","password":"pw"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusCreated,
			expectedSubstr: `"email":"asha@example.com"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &APIHandler{AuthService: tt.service, Sessions: newTestManager(), Logger: zap.NewNop()}
			rec := httptest.NewRecorder()
			h.Signup(rec, postJSON("/api/signup", tt.body))

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestAPIHandler_Login(t *testing.T) {
	asha := &models.User{ID: "u1", Name: "Asha", Email: "asha@example.com"}

	tests := []struct {
		name         string
		body         string
		service      *fakeAuthService
		expectedCode int
		expectCookie bool
	}{
		{name: "invalid JSON", body: `{`, service: &fakeAuthService{}, expectedCode: http.StatusBadRequest},
		{name: "empty fields", body: `{}`, service: &fakeAuthService{user: asha}, expectedCode: http.StatusUnauthorized},
		{
			name:         "bad credentials",
			body:         `{"email":"asha@example.com","password":"bad"}`,
			service:      &fakeAuthService{loginErr: service.ErrInvalidCredentials},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "store failure",
			body:         `{"email":"asha@example.com","password":"pw"}`,
			service:      &fakeAuthService{loginErr: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "success",
			body:         `{"email":"asha@example.com","password":"pw"}`,
			service:      &fakeAuthService{user: asha},
			expectedCode: http.StatusOK,
			expectCookie: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &APIHandler{AuthService: tt.service, Sessions: newTestManager(), Logger: zap.NewNop()}
			rec := httptest.NewRecorder()
			h.Login(rec, postJSON("/api/login", tt.body))

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			c := cookieNamed(rec, session.DefaultCookieName)
			if tt.expectCookie != (c != nil) {
				t.Errorf("session cookie present = %v; want %v", c != nil, tt.expectCookie)
			}
			if tt.expectCookie {
				var payload UserResponse
				if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
					t.Fatalf("failed to decode JSON: %v", err)
				}
				if payload.Name != "Asha" || payload.ID != "u1" {
					t.Errorf("unexpected payload %+v", payload)
				}
			}
		})
	}
}

func TestAPIHandler_Recommendations(t *testing.T) {
	rec := &fakeRecommender{results: []models.Recommendation{paradise}}
	h := &APIHandler{Search: rec, Logger: zap.NewNop()}

	w := httptest.NewRecorder()
	h.Recommendations(w, httptest.NewRequest(http.MethodGet, "/api/recommendations?query=biryani&search_by=cuisine", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload RecommendationsResponse
	if err := json.NewDecoder(w.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if payload.Query != "biryani" || payload.SearchBy != "cuisine" {
		t.Errorf("unexpected echo %+v", payload)
	}
	if len(payload.Results) != 1 || payload.Results[0].Name != paradise.Name || *payload.Results[0].Ratings != 4.1 {
		t.Errorf("unexpected results %+v", payload.Results)
	}
}

func TestAPIHandler_RecommendationsEmptyIsArray(t *testing.T) {
	h := &APIHandler{Search: &fakeRecommender{}, Logger: zap.NewNop()}

	w := httptest.NewRecorder()
	h.Recommendations(w, httptest.NewRequest(http.MethodGet, "/api/recommendations?query=x", nil))

	if !strings.Contains(w.Body.String(), `"results":[]`) {
		t.Errorf("expected empty JSON array, got %q", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"search_by":"names"`) {
		t.Errorf("expected default search_by, got %q", w.Body.String())
	}
}

func TestAPIHandler_Logout(t *testing.T) {
	h := &APIHandler{Sessions: newTestManager(), Logger: zap.NewNop()}
	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/logout", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}
