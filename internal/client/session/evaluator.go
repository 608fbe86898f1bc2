// Package session owns the client's credential: deciding whether a stored
// credential can be used on cold start and holding the single process-wide
// session state afterwards.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/comicreader/internal/client/token"
)

// DefaultNearExpiryThreshold is the remaining lifetime below which a stored
// credential is refreshed before use.
const DefaultNearExpiryThreshold = 3600 * time.Second

// Decision is the verdict on a stored credential.
type Decision int

const (
	Absent Decision = iota
	Expired
	Invalid
	NearExpiry
	Valid
)

func (d Decision) String() string {
	switch d {
	case Absent:
		return "absent"
	case Expired:
		return "expired"
	case Invalid:
		return "invalid"
	case NearExpiry:
		return "near-expiry"
	case Valid:
		return "valid"
	default:
		return "unknown"
	}
}

// Terminal reports whether the decision ends the session.
func (d Decision) Terminal() bool {
	return d == Expired || d == Invalid
}

// Introspector asks the backend whether it still recognizes a credential.
type Introspector interface {
	Introspect(ctx context.Context, credential string) (bool, error)
}

// Evaluate classifies storedCredential at now.
//
// Expiry is checked locally before the backend is asked, so a credential
// known to be dead never costs a round trip. A threshold of zero makes
// NearExpiry unreachable.
//
// A non-nil error is returned only when the liveness check itself fails; the
// returned Decision is then meaningless and callers must not act on it.
func Evaluate(ctx context.Context, storedCredential string, now time.Time, threshold time.Duration, remote Introspector) (Decision, error) {
	if storedCredential == "" {
		return Absent, nil
	}

	claims, err := token.Decode(storedCredential)
	if err != nil {
		return Invalid, nil
	}

	exp := claims.Exp()
	nowSec := now.Unix()
	if exp <= nowSec {
		return Expired, nil
	}

	if remote != nil {
		ok, err := remote.Introspect(ctx, storedCredential)
		if err != nil {
			return Invalid, errors.Join(ErrLivenessCheck, err)
		}
		if !ok {
			return Invalid, nil
		}
	}

	if exp-nowSec < int64(threshold/time.Second) {
		return NearExpiry, nil
	}
	return Valid, nil
}
