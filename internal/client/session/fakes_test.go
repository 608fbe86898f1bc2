package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "reader",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

// fakeStorage is an in-memory CredentialStorage.
type fakeStorage struct {
	value string

	LoadErr   error
	SaveErr   error
	RemoveErr error

	saves   int
	removes int
}

func (f *fakeStorage) Load(ctx context.Context) (string, error) {
	if f.LoadErr != nil {
		return "", f.LoadErr
	}
	return f.value, nil
}

func (f *fakeStorage) Save(ctx context.Context, credential string) error {
	f.saves++
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.value = credential
	return nil
}

func (f *fakeStorage) Remove(ctx context.Context) error {
	f.removes++
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	f.value = ""
	return nil
}

type fakeInvalidator struct {
	Err   error
	Block bool

	calls []string
}

func (f *fakeInvalidator) Logout(ctx context.Context, credential string) error {
	f.calls = append(f.calls, credential)
	if f.Block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.Err
}

type fakeIntrospector struct {
	Valid bool
	Err   error

	calls int
}

func (f *fakeIntrospector) Introspect(ctx context.Context, credential string) (bool, error) {
	f.calls++
	return f.Valid, f.Err
}
