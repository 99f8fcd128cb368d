package services

import (
	"context"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"orderly/internal/domain"
	"orderly/internal/repos"
)

var ErrBadCreds = errors.New("invalid username or password")

// AuthService checks the single configured administrator and binds sessions.
type AuthService struct {
	Sessions *repos.SessionRepo
	username string
	hash     []byte
}

// NewAuthService takes a bcrypt hash, or hashes password when hash is empty.
func NewAuthService(sessions *repos.SessionRepo, username, hash, password string) (*AuthService, error) {
	h := []byte(hash)
	if hash == "" {
		var err error
		h, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
	}
	return &AuthService{Sessions: sessions, username: username, hash: h}, nil
}

func (s *AuthService) Login(ctx context.Context, sid, username, password string) (*domain.Admin, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	// bcrypt runs even when the username is wrong
	passOK := bcrypt.CompareHashAndPassword(s.hash, []byte(password)) == nil
	if !userOK || !passOK {
		return nil, ErrBadCreds
	}
	if err := s.Sessions.Bind(ctx, sid, s.username); err != nil {
		return nil, err
	}
	return &domain.Admin{Username: s.username}, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	return s.Sessions.Unbind(ctx, sid)
}

func (s *AuthService) CurrentAdmin(ctx context.Context, sid string) (*domain.Admin, error) {
	return s.Sessions.Admin(ctx, sid)
}
