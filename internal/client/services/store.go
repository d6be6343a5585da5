package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/client/repositories/metadata"
)

// UserStore persists the signed-in user between runs.
//
// Get returns a nil user and no error when nothing is stored. A record that
// cannot be decoded is reported with models.ErrMalformedUser.
type UserStore interface {
	Get(ctx context.Context) (*models.User, time.Time, error)
	Set(ctx context.Context, u *models.User, savedAt time.Time) error
	Remove(ctx context.Context) error
}

const (
	userKey        = "user"
	userSavedAtKey = "user_saved_at"
)

// MetadataUserStore keeps the user record in the metadata key/value store.
type MetadataUserStore struct {
	repo metadata.Repository
}

var _ UserStore = (*MetadataUserStore)(nil)

func NewMetadataUserStore(repo metadata.Repository) *MetadataUserStore {
	return &MetadataUserStore{repo: repo}
}

func (s *MetadataUserStore) Get(ctx context.Context) (*models.User, time.Time, error) {
	raw, err := s.repo.Get(ctx, userKey)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read user: %w", err)
	}
	if raw == nil {
		return nil, time.Time{}, nil
	}

	u, err := models.DecodeUser(raw)
	if err != nil {
		return nil, time.Time{}, err
	}

	// A missing or unreadable timestamp leaves savedAt zero.
	var savedAt time.Time
	if ts, err := s.repo.Get(ctx, userSavedAtKey); err == nil && ts != nil {
		if t, err := time.Parse(time.RFC3339Nano, string(ts)); err == nil {
			savedAt = t
		}
	}
	return u, savedAt, nil
}

func (s *MetadataUserStore) Set(ctx context.Context, u *models.User, savedAt time.Time) error {
	if err := u.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.repo.SetMany(ctx, map[string][]byte{
		userKey:        b,
		userSavedAtKey: []byte(savedAt.UTC().Format(time.RFC3339Nano)),
	})
}

func (s *MetadataUserStore) Remove(ctx context.Context) error {
	return s.repo.DeleteMany(ctx, userKey, userSavedAtKey)
}
