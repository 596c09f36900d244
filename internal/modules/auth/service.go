package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swiprhq/swipr/internal/domain"
)

// ErrUnauthorized is returned for bad credentials and expired tokens.
var ErrUnauthorized = errors.New("unauthorized")

// DemoUserID is the account used when dev mode accepts unauthenticated
// requests.
const DemoUserID = "demo-user"

// Service issues and validates bearer tokens. Sessions live in memory;
// restarting the server logs everyone out.
type Service struct {
	repo     *Repository
	tokenTTL time.Duration

	mu       sync.RWMutex
	sessions map[string]Session

	clock func() time.Time
	log   zerolog.Logger
}

// NewService creates the auth service and makes sure the demo account
// exists.
func NewService(repo *Repository, tokenTTL time.Duration, log zerolog.Logger) (*Service, error) {
	s := &Service{
		repo:     repo,
		tokenTTL: tokenTTL,
		sessions: make(map[string]Session),
		clock:    time.Now,
		log:      log.With().Str("service", "auth").Logger(),
	}

	if _, err := repo.ByID(DemoUserID); errors.Is(err, domain.ErrNotFound) {
		demo := &User{
			ID:           DemoUserID,
			Email:        "demo@swipr.app",
			PasswordHash: hashPassword("demo1234"),
			FirstName:    "Demo",
			LastName:     "User",
			CreatedAt:    s.clock().UTC(),
		}
		if err := repo.Create(demo); err != nil {
			return nil, fmt.Errorf("failed to seed demo user: %w", err)
		}
		s.log.Info().Msg("Demo user created")
	} else if err != nil {
		return nil, err
	}

	return s, nil
}

// SetClock overrides the time source. Test hook.
func (s *Service) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Register creates an account and logs it in.
func (s *Service) Register(params RegisterParams) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if len(params.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}
	if _, err := s.repo.ByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrInvalidInput)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashPassword(params.Password),
		FirstName:    strings.TrimSpace(params.FirstName),
		LastName:     strings.TrimSpace(params.LastName),
		CreatedAt:    s.clock().UTC(),
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("User registered")
	return s.issue(user)
}

// Login validates credentials and issues a token.
func (s *Service) Login(params LoginParams) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	user, err := s.repo.ByEmail(email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	hashed := hashPassword(params.Password)
	if subtle.ConstantTimeCompare([]byte(hashed), []byte(user.PasswordHash)) != 1 {
		return nil, ErrUnauthorized
	}
	return s.issue(user)
}

// Validate resolves a bearer token to a user ID. Expired sessions are
// removed on sight.
func (s *Service) Validate(token string) (string, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return "", ErrUnauthorized
	}
	if s.clock().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return "", ErrUnauthorized
	}
	return session.UserID, nil
}

func (s *Service) issue(user *User) (*AuthResponse, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	token := hex.EncodeToString(raw)
	expires := s.clock().Add(s.tokenTTL)

	s.mu.Lock()
	s.sessions[token] = Session{Token: token, UserID: user.ID, ExpiresAt: expires}
	s.mu.Unlock()

	return &AuthResponse{Token: token, ExpiresAt: expires, User: user}, nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
