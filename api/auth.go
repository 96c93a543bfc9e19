package api

import (
	"context"

	"github.com/andreasstove999/ecommerce-system/storefront-client-go/client"
	"github.com/andreasstove999/ecommerce-system/storefront-client-go/session"
)

type AuthService struct {
	c    *client.Client
	sess *session.Session
}

// Login authenticates and installs the resulting identity into the session.
// The session change empties the response cache.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if err := requireEmail(creds.Email); err != nil {
		return nil, err
	}
	if err := require("password", creds.Password); err != nil {
		return nil, err
	}

	s.sess.BeginAuth()
	var result LoginResult
	if err := s.c.Post(ctx, "/auth/login", creds, &result, nil); err != nil {
		s.sess.Clear()
		return nil, fallback(err, "login failed, please try again")
	}

	s.sess.SetAuthenticated(sessionData(result.Token, result.User))
	return &result, nil
}

// Register creates an account. Approval-gated accounts come back without a
// token; the session is only seeded when one is present.
func (s *AuthService) Register(ctx context.Context, reg Registration) (*LoginResult, error) {
	if err := requireEmail(reg.Email); err != nil {
		return nil, err
	}
	if err := require("password", reg.Password); err != nil {
		return nil, err
	}
	if err := require("username", reg.Username); err != nil {
		return nil, err
	}

	var result LoginResult
	if err := s.c.Post(ctx, "/auth/register", reg, &result, nil); err != nil {
		return nil, fallback(err, "registration failed, please try again")
	}
	if result.Token != "" {
		s.sess.SetAuthenticated(sessionData(result.Token, result.User))
	}
	return &result, nil
}

// Logout clears the session unconditionally. The server call is best
// effort: a dead backend must not keep the client logged in.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.c.Post(ctx, "/auth/logout", nil, nil, nil)
	s.sess.Clear()
	if err != nil && !client.IsRecoverable(err) && !client.IsUnauthorized(err) {
		return fallback(err, "logout failed")
	}
	return nil
}

// Me fetches the authoritative profile. NoCache: profile freshness is
// governed by the profile synchronizer's throttle, not the response cache.
func (s *AuthService) Me(ctx context.Context) (*User, error) {
	var u User
	opts := &client.RequestOptions{NoCache: true}
	if err := s.c.Get(ctx, "/auth/me", &u, opts); err != nil {
		return nil, fallback(err, "failed to load profile")
	}
	return &u, nil
}

// UpdateProfile persists profile edits and refreshes the session mirror.
func (s *AuthService) UpdateProfile(ctx context.Context, u User) (*User, error) {
	if u.Email != "" {
		if err := requireEmail(u.Email); err != nil {
			return nil, err
		}
	}
	var updated User
	if err := s.c.Put(ctx, "/auth/me", u, &updated, nil); err != nil {
		return nil, fallback(err, "failed to update profile")
	}
	s.sess.UpdateProfile(sessionData(s.sess.Token(), updated))
	return &updated, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if err := requireEmail(email); err != nil {
		return err
	}
	body := map[string]string{"email": email}
	err := s.c.Post(ctx, "/auth/forgot-password", body, nil, nil)
	return fallback(err, "failed to send reset email")
}

func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	if err := requireEmail(email); err != nil {
		return err
	}
	if err := require("otp", otp); err != nil {
		return err
	}
	body := map[string]string{"email": email, "otp": otp}
	err := s.c.Post(ctx, "/auth/verify-otp", body, nil, nil)
	return fallback(err, "invalid or expired code")
}

func (s *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if err := requireEmail(email); err != nil {
		return err
	}
	if err := require("otp", otp); err != nil {
		return err
	}
	if err := require("password", newPassword); err != nil {
		return err
	}
	body := map[string]string{"email": email, "otp": otp, "password": newPassword}
	err := s.c.Post(ctx, "/auth/reset-password", body, nil, nil)
	return fallback(err, "failed to reset password")
}

// Status looks up the approval status of an account by email.
func (s *AuthService) Status(ctx context.Context, email string) (*AccountStatus, error) {
	if err := requireEmail(email); err != nil {
		return nil, err
	}
	var st AccountStatus
	if err := s.c.Get(ctx, "/auth/status/"+email, &st, nil); err != nil {
		return nil, fallback(err, "failed to check account status")
	}
	return &st, nil
}

func (s *AuthService) ResendApproval(ctx context.Context, email string) error {
	if err := requireEmail(email); err != nil {
		return err
	}
	body := map[string]string{"email": email}
	err := s.c.Post(ctx, "/auth/resend-approval", body, nil, nil)
	return fallback(err, "failed to resend approval request")
}

func sessionData(token string, u User) session.Data {
	return session.Data{
		Token:        token,
		UserID:       u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Role:         u.Role,
		Status:       u.Status,
		UserType:     u.UserTypeName,
		UserTypeID:   u.UserTypeID,
		UserTypeName: u.UserTypeName,
	}
}
