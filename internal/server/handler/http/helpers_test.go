package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/restofinder/internal/models"
	"github.com/atinyakov/restofinder/internal/session"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	user      *models.User
	signupErr error
	loginErr  error
}

func (f *fakeAuthService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	if f.signupErr != nil {
		return nil, f.signupErr
	}
	return &models.User{ID: "u1", Name: name, Email: email}, nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.user, nil
}

// fakeRecommender records the last query it received.
type fakeRecommender struct {
	results []models.Recommendation
	calls   int
	query   string
	mode    string
}

func (f *fakeRecommender) Recommend(ctx context.Context, query, mode string) []models.Recommendation {
	f.calls++
	f.query = query
	f.mode = mode
	if f.results == nil {
		return []models.Recommendation{}
	}
	return f.results
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	rd, err := NewRenderer(zap.NewNop())
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	return rd
}

func newTestManager() *session.Manager {
	return session.NewManager(session.NewMemoryStore(), session.ManagerConfig{TTL: time.Hour})
}

// flashesFrom decodes the flash cookie set on a response.
func flashesFrom(rec *httptest.ResponseRecorder) []Flash {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == flashCookie && c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return readFlashes(req)
}

// cookieNamed returns the last cookie called name set on a response.
func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func ratings(v float64) *float64 { return &v }
