package auth

import (
	"context"
	"database/sql"
	"encoding/gob"
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"wikiref/internal/models"
)

const sessionName = "wikiref-session"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionKeyTooShort = errors.New("session key must be at least 32 characters long")
)

type contextKey struct{}

func init() {
	gob.Register(&models.User{})
}

// NewSessionStore creates the cookie store used for login sessions.
func NewSessionStore(sessionKey string) (*sessions.CookieStore, error) {
	if len(sessionKey) < 32 {
		return nil, ErrSessionKeyTooShort
	}
	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options.HttpOnly = true
	store.Options.Path = "/"
	store.Options.SameSite = http.SameSiteLaxMode // Protect against CSRF
	return store, nil
}

// Service provides authentication-related services.
type Service struct {
	Repo   *Repository
	Store  sessions.Store
	Logger *zap.Logger
}

// NewService creates a new authentication service.
func NewService(repo *Repository, store sessions.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Repo: repo, Store: store, Logger: logger.Named("auth")}
}

// RegisterUser creates a new user with a local password identity.
func (s *Service) RegisterUser(ctx context.Context, login, displayName, password string, admin bool) (*models.User, error) {
	if _, err := s.Repo.FindUserByLogin(ctx, login); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	passwordHash := string(hashedPassword)

	user := &models.User{
		Login:       login,
		DisplayName: displayName,
		Admin:       admin,
	}
	identity := &models.Identity{
		Provider:       "local",
		ProviderUserID: login,
		PasswordHash:   &passwordHash,
	}

	if err := s.Repo.CreateUser(ctx, user, identity); err != nil {
		return nil, err
	}

	s.Logger.Info("user registered", zap.String("login", login), zap.Bool("admin", admin))
	return user, nil
}

// Authenticate checks a login and password against the local identity.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.Repo.FindUserByLogin(ctx, login)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	identity, err := s.Repo.FindIdentityByProvider(ctx, "local", login)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if identity.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*identity.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates a user and creates a session.
func (s *Service) Login(w http.ResponseWriter, r *http.Request, login, password string) (*models.User, error) {
	user, err := s.Authenticate(r.Context(), login, password)
	if err != nil {
		s.Logger.Warn("login failed", zap.String("login", login), zap.Error(err))
		return nil, err
	}

	session, _ := s.Store.Get(r, sessionName)
	session.Values["user"] = user

	// Behind a reverse proxy the scheme comes from X-Forwarded-Proto.
	session.Options.Secure = isSecure(r)

	if err := session.Save(r, w); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout destroys a user's session.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.Store.Get(r, sessionName)
	delete(session.Values, "user")
	session.Options.Secure = isSecure(r)

	if err := session.Save(r, w); err != nil {
		s.Logger.Error("saving session", zap.Error(err))
	}
}

// GetCurrentUser returns the currently logged-in user.
func (s *Service) GetCurrentUser(r *http.Request) *models.User {
	session, _ := s.Store.Get(r, sessionName)
	if user, ok := session.Values["user"].(*models.User); ok {
		return user
	}
	return nil
}

// RequireLogin redirects anonymous requests to the login page.
func (s *Service) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil && s.GetCurrentUser(r) == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithUser adds the current user to the request context.
func (s *Service) WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := s.GetCurrentUser(r)
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// ContextWithUser returns a copy of ctx carrying user.
func ContextWithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the user stored by WithUser, or nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(contextKey{}).(*models.User)
	return user
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || r.URL.Scheme == "https" || r.Header.Get("X-Forwarded-Proto") == "https"
}
