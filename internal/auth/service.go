package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates the single dashboard administrator.
type Service struct {
	config Config
}

func NewService(config Config) *Service {
	return &Service{config: config}
}

func (s *Service) Enabled() bool {
	return s.config.Enabled()
}

func (s *Service) Secret() string {
	return s.config.JWTSecret
}

func (s *Service) Login(username, password string) (string, error) {
	if !s.config.Enabled() {
		return "", ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.Username)) == 1
	passOK := CheckPassword(password, s.config.PasswordHash)
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	token, err := GenerateToken(s.config, username)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}
