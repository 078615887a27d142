package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/k-krishaa/Books/internal/auth"
	"github.com/k-krishaa/Books/internal/email"
	"github.com/k-krishaa/Books/internal/models"
	"github.com/k-krishaa/Books/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// AuthService owns accounts and login sessions.
type AuthService struct {
	Users    *repository.UserRepository
	Sessions *repository.SessionRepository
	Tokens   *auth.TokenIssuer
	Mailer   email.Mailer

	now func() time.Time
}

func NewAuthService(users *repository.UserRepository, sessions *repository.SessionRepository, tokens *auth.TokenIssuer, mailer email.Mailer) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, Tokens: tokens, Mailer: mailer, now: time.Now}
}

// LoginResult is what the handler needs to set the session cookie.
type LoginResult struct {
	User      *models.User
	SessionID string
	Token     string
	ExpiresAt time.Time
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// dummyPasswordHash is compared against when the username is unknown so that
// both failure paths cost one bcrypt comparison.
func dummyPasswordHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return dummyHash
}

// Register creates a new non-admin account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, username, emailAddr, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	emailAddr = strings.TrimSpace(emailAddr)

	verr := &ValidationError{}
	if username == "" {
		verr.add("username", "Username is required")
	}
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		verr.add("email", "A valid email is required")
	}
	if len(password) < minPasswordLen {
		verr.add("password", fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}
	if !verr.empty() {
		return nil, verr
	}

	exists, err := s.Users.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, ErrDuplicateUsername
	}

	var pw models.Password
	if err := pw.Set(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{Username: username, Email: emailAddr, PasswordHash: pw.Hash}
	if _, err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	if s.Mailer != nil {
		if err := email.SendWelcome(ctx, s.Mailer, u); err != nil {
			log.Printf("WARNING: welcome email for user %d failed: %v", u.ID, err)
		}
	}
	return u, nil
}

// Login checks credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}

	pw := models.Password{Hash: u.PasswordHash}
	ok, err := pw.Matches(password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.Tokens.TTL()),
	}
	if err := s.Sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	token, err := s.Tokens.GenerateToken(sess.ID, u.ID, sess.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &LoginResult{User: u, SessionID: sess.ID, Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, sessionID)
}

// Resolve loads the user for a live session, or ErrNotFound.
func (s *AuthService) Resolve(ctx context.Context, sessionID string) (*models.User, error) {
	return s.Sessions.UserForSession(ctx, sessionID, s.now())
}

// Authenticate turns a cookie token into the current user and session id.
// Errors wrapping auth.ErrInvalidToken mean the cookie is dead; anything else
// is a lookup failure and the cookie may still be good.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, string, error) {
	claims, err := s.Tokens.ValidateToken(token)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", auth.ErrInvalidToken, err)
	}
	u, err := s.Resolve(ctx, claims.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("%w: %w", auth.ErrInvalidToken, err)
	}
	if err != nil {
		return nil, "", err
	}
	if u.ID != claims.UserID {
		return nil, "", auth.ErrInvalidToken
	}
	return u, claims.ID, nil
}

// BootstrapAdmin makes sure the configured admin account exists and is an admin.
// An existing user is promoted; their password is left alone.
func (s *AuthService) BootstrapAdmin(ctx context.Context, username, emailAddr, password string) error {
	u, err := s.Users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if u.IsAdmin {
			return nil
		}
		log.Printf("Promoting existing user %q to admin", username)
		return s.Users.SetAdmin(ctx, u.ID, true)
	case !errors.Is(err, repository.ErrNotFound):
		return err
	}

	var pw models.Password
	if err := pw.Set(password); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.User{Username: username, Email: emailAddr, PasswordHash: pw.Hash, IsAdmin: true}
	if _, err := s.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("Created admin user %q", username)
	return nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.Sessions.DeleteExpired(ctx, s.now())
}
