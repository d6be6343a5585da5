// Package models defines the account record, session state and wire types
// exchanged with the account service.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedUser = errors.New("malformed user record")

// User is the account record issued by the account service. The client
// stores and displays it but never edits it.
//
// Phone, Bio and AvatarURL are only filled in by the avatar endpoint.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Validate reports whether u looks like a record the service could have
// issued: positive id and non-empty email.
func (u *User) Validate() error {
	if u == nil {
		return fmt.Errorf("%w: nil", ErrMalformedUser)
	}
	if u.ID <= 0 {
		return fmt.Errorf("%w: id %d", ErrMalformedUser, u.ID)
	}
	if u.Email == "" {
		return fmt.Errorf("%w: empty email", ErrMalformedUser)
	}
	return nil
}

// DecodeUser parses a serialized record and validates it.
func DecodeUser(b []byte) (*User, error) {
	var u User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedUser, err)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return &u, nil
}

// Clone returns an independent copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
