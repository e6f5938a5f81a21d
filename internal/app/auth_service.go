package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kuisin/internal/domain"
)

const minPasswordLength = 6

// Principal is the authenticated admin behind a bearer token.
type Principal struct {
	AdminID   string
	SessionID string
}

// AuthService issues and checks admin bearer tokens. Tokens are HS256 JWTs whose
// jti names a server-side session, so logout revokes them before expiry.
type AuthService struct {
	admins   AdminRepository
	sessions SessionStore
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(admins AdminRepository, sessions SessionStore, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{admins: admins, sessions: sessions, secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock is test-only for deterministic token expiry.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// LoginResult carries the issued token and the admin it belongs to.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Admin     domain.Admin `json:"user"`
}

// CreateAdmin registers an admin with a bcrypt-hashed password.
func (s *AuthService) CreateAdmin(ctx context.Context, email, name, password string) (domain.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := required("email", email); err != nil {
		return domain.Admin{}, err
	}
	if len(password) < minPasswordLength {
		return domain.Admin{}, &domain.ValidationError{Field: "password", Message: "Password minimal 6 karakter"}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Admin{}, fmt.Errorf("hash password: %w", err)
	}
	admin := domain.Admin{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.admins.CreateAdmin(ctx, admin); err != nil {
		return domain.Admin{}, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// Login verifies credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := required("email", email); err != nil {
		return LoginResult{}, err
	}
	if len(password) < minPasswordLength {
		return LoginResult{}, &domain.ValidationError{Field: "password", Message: "Password minimal 6 karakter"}
	}

	admin, err := s.admins.GetAdminByEmail(ctx, email)
	if errors.Is(err, domain.ErrAdminNotFound) {
		return LoginResult{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("lookup admin: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	sessionID := uuid.NewString()
	now := s.now()
	expires := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   admin.ID,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}
	if err := s.sessions.Create(ctx, sessionID, admin.ID, s.ttl); err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}
	return LoginResult{Token: token, ExpiresAt: expires, Admin: admin}, nil
}

// Authenticate resolves a bearer token to its admin. Any failure is ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (Principal, error) {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return Principal{}, domain.ErrUnauthorized
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid || claims.ID == "" {
		return Principal{}, domain.ErrUnauthorized
	}

	adminID, err := s.sessions.Lookup(ctx, claims.ID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return Principal{}, domain.ErrUnauthorized
	}
	if err != nil {
		return Principal{}, fmt.Errorf("lookup session: %w", err)
	}
	if adminID != claims.Subject {
		return Principal{}, domain.ErrUnauthorized
	}
	return Principal{AdminID: adminID, SessionID: claims.ID}, nil
}

// Logout revokes the session behind the principal.
func (s *AuthService) Logout(ctx context.Context, p Principal) error {
	return s.sessions.Revoke(ctx, p.SessionID)
}

// Me returns the admin behind the principal.
func (s *AuthService) Me(ctx context.Context, p Principal) (domain.Admin, error) {
	return s.admins.GetAdmin(ctx, p.AdminID)
}
