package db

import (
	"context"
	"errors"
	"strings"

	"github.com/geocoder89/pcblog/internal/config"
	"github.com/geocoder89/pcblog/internal/domain/user"
)

type SeedStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// EnsureSeedUser creates the configured user unless it already exists.
func EnsureSeedUser(ctx context.Context, users SeedStore, hasher PasswordHasher, seed config.SeedUser) error {
	if seed.Email == "" || seed.Password == "" {
		return nil
	}

	email := strings.TrimSpace(seed.Email)

	// check if the user exists
	_, err := users.GetByEmail(ctx, email)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := hasher.Hash(seed.Password)

	if err != nil {
		return err
	}

	_, err = users.Create(ctx, seed.Name, email, hash)

	// another instance may have won the race
	if errors.Is(err, user.ErrEmailTaken) {
		return nil
	}

	return err
}
