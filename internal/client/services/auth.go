// Package services holds the reader's use cases: signing in and out, profile
// edits, catalog browsing, comments and ratings. Each service talks to the
// backend through client.Client and reads the session it needs from the
// shared stores.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/comicreader/internal/client/bootstrap"
	"github.com/dmitrijs2005/comicreader/internal/client/client"
	"github.com/dmitrijs2005/comicreader/internal/client/models"
	"github.com/dmitrijs2005/comicreader/internal/client/profile"
	"github.com/dmitrijs2005/comicreader/internal/common"
	"github.com/dmitrijs2005/comicreader/internal/logging"
)

// ErrSessionExpired is returned when the backend rejected the credential of
// a signed-in call. The session has already been cleared when it is seen.
var ErrSessionExpired = errors.New("session expired, please log in again")

// Session is the session store surface used by services.
type Session interface {
	Credential() string
	Authenticate(ctx context.Context, credential string) error
	Logout(ctx context.Context)
}

// Profiles is the profile store surface used by services.
type Profiles interface {
	State() profile.Profile
	Dispatch(a profile.Action) profile.Profile
}

// AuthService covers account operations.
//
// Contract:
//   - Login: exchange username/password for a credential and load the profile.
//   - Register: create an account; it does not sign in.
//   - Logout: clear the session and the profile.
//   - ResetPassword / VerifyOTP: the signed-out recovery flow; both return
//     the backend's message for the reader.
//   - ChangePassword / UpdateProfile: require a session.
//
// Passwords are wiped from the given buffers once sent.
type AuthService interface {
	Login(ctx context.Context, username string, password []byte) error
	Register(ctx context.Context, r models.Registration, password []byte) error
	Logout(ctx context.Context)
	ResetPassword(ctx context.Context, email string) (string, error)
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword []byte) error
	UpdateProfile(ctx context.Context, c models.ProfileChange) error
	Current() profile.Profile
}

// Auth implements AuthService.
type Auth struct {
	client   client.Client
	session  Session
	profiles Profiles
	log      logging.Logger
}

func NewAuth(c client.Client, s Session, p Profiles, log logging.Logger) *Auth {
	return &Auth{client: c, session: s, profiles: p, log: log}
}

func (a *Auth) Login(ctx context.Context, username string, password []byte) error {
	defer common.WipeByteArray(password)

	username = strings.TrimSpace(username)
	if username == "" || len(password) == 0 {
		return fmt.Errorf("%w: username and password are required", common.ErrInvalidArgument)
	}

	credential, err := a.client.Login(ctx, username, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	if err := a.session.Authenticate(ctx, credential); err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := bootstrap.LoadProfile(ctx, a.client, a.profiles, credential); err != nil {
		a.log.Warn(ctx, "profile load after login failed, signing out", "error", err)
		a.Logout(ctx)
		return fmt.Errorf("load profile: %w", err)
	}
	a.log.Info(ctx, "signed in", "username", username)
	return nil
}

func (a *Auth) Register(ctx context.Context, r models.Registration, password []byte) error {
	defer common.WipeByteArray(password)

	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || len(password) == 0 || r.Email == "" {
		return fmt.Errorf("%w: username, password and email are required", common.ErrInvalidArgument)
	}
	r.Password = string(password)
	if err := a.client.Register(ctx, r); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Logout is safe to call when already signed out.
func (a *Auth) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	a.profiles.Dispatch(profile.ClearAll{})
}

// ResetPassword requests a one-time code for the account registered
// with email.
func (a *Auth) ResetPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", common.ErrInvalidArgument)
	}
	msg, err := a.client.ResetPassword(ctx, email)
	if err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	a.log.Info(ctx, "password reset requested")
	return msg, nil
}

// VerifyOTP submits the code received after ResetPassword.
func (a *Auth) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	email, otp = strings.TrimSpace(email), strings.TrimSpace(otp)
	if email == "" || otp == "" {
		return "", fmt.Errorf("%w: email and code are required", common.ErrInvalidArgument)
	}
	msg, err := a.client.VerifyOTP(ctx, email, otp)
	if err != nil {
		return "", fmt.Errorf("verify code: %w", err)
	}
	return msg, nil
}

func (a *Auth) ChangePassword(ctx context.Context, oldPassword, newPassword []byte) error {
	defer common.WipeByteArray(oldPassword)
	defer common.WipeByteArray(newPassword)

	credential := a.session.Credential()
	if credential == "" {
		return common.ErrAuthRequired
	}
	if len(newPassword) == 0 {
		return fmt.Errorf("%w: new password is empty", common.ErrInvalidArgument)
	}
	err := a.client.ChangePassword(ctx, credential, string(oldPassword), string(newPassword))
	return expireOnUnauthorized(ctx, a, err)
}

// UpdateProfile sends the edit and, once the backend accepts it, merges the
// edited fields into the local profile. Email is not editable.
func (a *Auth) UpdateProfile(ctx context.Context, c models.ProfileChange) error {
	credential := a.session.Credential()
	if credential == "" {
		return common.ErrAuthRequired
	}
	if err := a.client.ChangeInformation(ctx, credential, c); err != nil {
		return expireOnUnauthorized(ctx, a, err)
	}

	male := c.Male
	a.profiles.Dispatch(profile.ReplaceAll{Fields: profile.Fields{
		FullName:    &c.FullName,
		DateOfBirth: &c.DateOfBirth,
		IsMale:      &male,
	}})
	return nil
}

// Current returns the loaded profile.
func (a *Auth) Current() profile.Profile {
	return a.profiles.State()
}

// expireOnUnauthorized signs the reader out when err says the backend no
// longer accepts the credential.
func expireOnUnauthorized(ctx context.Context, a *Auth, err error) error {
	if err == nil {
		return nil
	}
	if client.IsUnauthorized(err) {
		a.log.Info(ctx, "backend rejected credential, signing out")
		a.Logout(ctx)
		return fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return err
}

var _ AuthService = (*Auth)(nil)
