package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/snippet-board/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 10
	MaxPasswordLength = 2000
)

// AuthService handles user registration and credential checks.
type AuthService struct {
	users      domain.UserRepository
	bcryptCost int
	// dummyHash is compared against when the username is unknown so that
	// both failure paths cost one bcrypt comparison.
	dummyHash []byte
}

type registration struct {
	Username string `validate:"required"`
	Password string `validate:"min=10,max=2000"`
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, bcryptCost int) *AuthService {
	dummy, err := bcrypt.GenerateFromPassword(passwordKey("not-a-real-password"), bcryptCost)
	if err != nil {
		// Only reachable with an out-of-range cost, which config rejects.
		panic(fmt.Sprintf("generate dummy hash: %v", err))
	}
	return &AuthService{
		users:      users,
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
	}
}

// Register validates the credentials, hashes the password and stores a new user.
// The returned user carries only the hash, never the plaintext.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	in := registration{Username: strings.TrimSpace(username), Password: password}
	if err := checkInput(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword(passwordKey(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate returns the user matching username and password. Any mismatch,
// including an unknown username, yields domain.ErrInvalidLogin.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, passwordKey(password))
			return nil, domain.ErrInvalidLogin
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordKey(password)); err != nil {
		return nil, domain.ErrInvalidLogin
	}
	return user, nil
}

// passwordKey reduces a password to a fixed-length key so that bcrypt's
// 72-byte input limit never truncates or rejects long passwords.
func passwordKey(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
