package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/comicreader/internal/common"
	"github.com/dmitrijs2005/comicreader/internal/dbx"
)

const savedAtSuffix = ".saved_at"

// CredentialSlot is the durable single-slot home of the session credential.
// The credential and the time it was written are stored together in one
// transaction.
type CredentialSlot struct {
	db  *sql.DB
	key string
	now func() time.Time
}

func NewCredentialSlot(db *sql.DB) *CredentialSlot {
	return &CredentialSlot{db: db, key: common.CredentialStorageKey, now: time.Now}
}

// Load returns the stored credential, or "" when the slot is empty.
func (s *CredentialSlot) Load(ctx context.Context) (string, error) {
	v, err := NewSQLiteRepository(s.db).Get(ctx, s.key)
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *CredentialSlot) Save(ctx context.Context, credential string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Set(ctx, s.key, []byte(credential)); err != nil {
			return err
		}
		stamp := s.now().UTC().Format(time.RFC3339)
		return repo.Set(ctx, s.key+savedAtSuffix, []byte(stamp))
	})
}

// Remove empties the slot. Removing an empty slot is not an error.
func (s *CredentialSlot) Remove(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, s.key); err != nil {
			return err
		}
		return repo.Delete(ctx, s.key+savedAtSuffix)
	})
}

// SavedAt reports when the credential was last written. ok is false for an
// empty slot.
func (s *CredentialSlot) SavedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	v, err := NewSQLiteRepository(s.db).Get(ctx, s.key+savedAtSuffix)
	if err != nil || v == nil {
		return time.Time{}, false, err
	}
	t, err = time.Parse(time.RFC3339, string(v))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse saved_at: %w", err)
	}
	return t, true, nil
}
