package services

import (
	"fmt"
	"strings"

	"crypto-travel/internal/apperrors"

	"github.com/rs/zerolog"
	"github.com/supabase-community/gotrue-go/types"
	"github.com/supabase-community/supabase-go"
)

// AuthService delegates credential handling entirely to the hosted Supabase
// auth provider. No passwords are stored or hashed locally.
type AuthService struct {
	sb     *supabase.Client
	logger zerolog.Logger
}

func NewAuthService(sb *supabase.Client, logger zerolog.Logger) *AuthService {
	return &AuthService{
		sb:     sb,
		logger: logger,
	}
}

// SignUp registers a new user with the auth provider. The username metadata
// defaults to the local part of the email address.
func (s *AuthService) SignUp(email, password string) (*types.SignupResponse, error) {
	if email == "" || password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	username := email
	if at := strings.Index(email, "@"); at > 0 {
		username = email[:at]
	}

	resp, err := s.sb.Auth.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data: map[string]interface{}{
			"username": username,
		},
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("email", email).Msg("Signup rejected by auth provider")
		return nil, apperrors.Validation("signup failed: %v", err)
	}

	return resp, nil
}

// SignIn exchanges credentials for a session with the auth provider.
func (s *AuthService) SignIn(email, password string) (*types.TokenResponse, error) {
	if email == "" || password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	session, err := s.sb.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		s.logger.Warn().Str("email", email).Msg("Login failed")
		return nil, apperrors.Auth(fmt.Sprintf("invalid email or password: %v", err))
	}

	return session, nil
}
