package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrMismatch = errors.New("password mismatch")

// Scheme encodes stored passwords and checks presented ones against them.
// The storefront contract is plaintext comparison; keeping it behind this
// interface makes the bcrypt switch a single wiring change.
type Scheme interface {
	Hash(password string) (string, error)
	Verify(stored, presented string) error
}

// Plain stores and compares passwords verbatim, matching the legacy backend.
type Plain struct{}

func (Plain) Hash(password string) (string, error) {
	return password, nil
}

func (Plain) Verify(stored, presented string) error {
	if stored != presented {
		return ErrMismatch
	}
	return nil
}

type Bcrypt struct{}

func (Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (Bcrypt) Verify(stored, presented string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)); err != nil {
		return ErrMismatch
	}
	return nil
}
