package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/restofinder/internal/models"
)

type mockAuthRepo struct {
	FindByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	InsertFunc      func(ctx context.Context, name, email, hash string) (*models.User, error)
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.FindByEmailFunc(ctx, email)
}

func (m *mockAuthRepo) Insert(ctx context.Context, name, email, hash string) (*models.User, error) {
	return m.InsertFunc(ctx, name, email, hash)
}

// memRepo is an in-memory AuthRepository used for round-trip tests.
type memRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*models.User)}
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) Insert(_ context.Context, name, email, hash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[email]; ok {
		return nil, models.ErrDuplicateEmail
	}
	u := &models.User{ID: "id-" + email, Name: name, Email: email, PasswordHash: hash}
	m.users[email] = u
	cp := *u
	return &cp, nil
}

func newTestAuthService(repo AuthRepository) *AuthService {
	svc := NewAuthService(repo)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestSignupThenLogin(t *testing.T) {
	svc := newTestAuthService(newMemRepo())
	ctx := context.Background()

	u, err := svc.Signup(ctx, "Asha", "asha@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if u.PasswordHash == "s3cret" {
		t.Fatal("password stored in plain text")
	}

	got, err := svc.Login(ctx, "asha@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if got.Name != "Asha" || got.ID != u.ID {
		t.Errorf("Login = %+v; want user %+v", got, u)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestAuthService(newMemRepo())
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "Asha", "asha@example.com", "s3cret"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if _, err := svc.Login(ctx, "asha@example.com", "guess"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login error = %v; want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(newMemRepo())
	if _, err := svc.Login(context.Background(), "ghost@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login error = %v; want ErrInvalidCredentials", err)
	}
}

func TestLogin_RepoError(t *testing.T) {
	wantErr := errors.New("db error")
	svc := newTestAuthService(&mockAuthRepo{
		FindByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, wantErr
		},
	})
	if _, err := svc.Login(context.Background(), "a@example.com", "x"); !errors.Is(err, wantErr) {
		t.Errorf("Login error = %v; want %v", err, wantErr)
	}
}

func TestSignup_DuplicateKeepsFirst(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "Asha", "asha@example.com", "first"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if _, err := svc.Signup(ctx, "Other", "asha@example.com", "second"); !errors.Is(err, models.ErrDuplicateEmail) {
		t.Fatalf("second Signup error = %v; want ErrDuplicateEmail", err)
	}

	if _, err := svc.Login(ctx, "asha@example.com", "first"); err != nil {
		t.Errorf("first password no longer works: %v", err)
	}
	if _, err := svc.Login(ctx, "asha@example.com", "second"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("duplicate signup changed the password: %v", err)
	}
}

func TestSignup_InsertNotCalledOnLookupError(t *testing.T) {
	wantErr := errors.New("db error")
	svc := newTestAuthService(&mockAuthRepo{
		FindByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, wantErr
		},
		InsertFunc: func(ctx context.Context, name, email, hash string) (*models.User, error) {
			t.Fatal("Insert must not be called")
			return nil, nil
		},
	})
	if _, err := svc.Signup(context.Background(), "A", "a@example.com", "x"); !errors.Is(err, wantErr) {
		t.Errorf("Signup error = %v; want %v", err, wantErr)
	}
}

func TestSignup_PassesHashToRepo(t *testing.T) {
	var gotHash string
	svc := newTestAuthService(&mockAuthRepo{
		FindByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrUserNotFound
		},
		InsertFunc: func(ctx context.Context, name, email, hash string) (*models.User, error) {
			if name != "Carol" || email != "carol@example.com" {
				t.Errorf("Insert received %q, %q", name, email)
			}
			gotHash = hash
			return &models.User{ID: "1", Name: name, Email: email, PasswordHash: hash}, nil
		},
	})

	if _, err := svc.Signup(context.Background(), "Carol", "carol@example.com", "pw"); err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(gotHash), []byte("pw")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}
