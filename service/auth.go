package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bioskop-cli/model"
)

// AuthService covers login, registration, logout, profile and password reset.
type AuthService struct {
	client *Client
}

func NewAuthService(c *Client) *AuthService {
	return &AuthService{client: c}
}

func (s *AuthService) Login(ctx context.Context, creds model.Credentials) (any, error) {
	var body any
	if err := s.client.sendJSON(ctx, http.MethodPost, "/login", creds, &body); err != nil {
		return nil, err
	}
	return body, nil
}

func (s *AuthService) Register(ctx context.Context, reg model.Registration) (any, error) {
	var body any
	if err := s.client.sendJSON(ctx, http.MethodPost, "/register", reg, &body); err != nil {
		return nil, err
	}
	return body, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.do(ctx, request{method: http.MethodPost, path: "/logout"}, nil)
}

// Profile returns the current user, unwrapping a resource envelope.
func (s *AuthService) Profile(ctx context.Context) (any, error) {
	var body any
	if err := s.client.getJSON(ctx, "/profile", nil, &body); err != nil {
		return nil, err
	}
	if obj, ok := body.(map[string]any); ok {
		if inner, ok := obj["data"].(map[string]any); ok {
			return inner, nil
		}
	}
	return body, nil
}

// ForgotPassword asks the API to send a reset token to email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	payload := map[string]string{"email": email}
	return s.client.sendJSON(ctx, http.MethodPost, "/password/forgot", payload, nil)
}

func (s *AuthService) ResetPassword(ctx context.Context, reset model.PasswordReset) error {
	return s.client.sendJSON(ctx, http.MethodPost, "/password/reset", reset, nil)
}
