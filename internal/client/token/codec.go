// Package token decodes bearer credentials issued by the comic backend.
//
// Decoding is structural only: the payload segment is base64url-decoded and
// parsed as JSON. Signatures are never checked on the client; the backend
// verifies every credential it receives.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrDecode reports a credential that is not a well-formed token.
// It always means "invalid", never "expired".
var ErrDecode = errors.New("malformed credential")

// Claims is the subset of the credential payload the client relies on.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Exp returns the expiry claim in epoch seconds.
func (c Claims) Exp() int64 {
	return c.ExpiresAt.Unix()
}

var parser = jwt.NewParser()

// Decode parses raw without verifying its signature and returns its claims.
// A credential without an exp claim is rejected with ErrDecode.
func Decode(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty", ErrDecode)
	}

	rc := &jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(raw, rc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if rc.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing exp claim", ErrDecode)
	}

	return &Claims{Subject: rc.Subject, ExpiresAt: rc.ExpiresAt.Time}, nil
}
