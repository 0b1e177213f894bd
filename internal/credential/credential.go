// Package credential resolves the highlights API key.
package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// EnvAPIKey overrides any stored key when set.
const EnvAPIKey = "SHORTLOG_API_KEY"

// ErrNotFound is returned when no key is stored for a user.
var ErrNotFound = errors.New("api key not found")

// Store reads and writes secrets keyed by service and user.
type Store interface {
	Get(service, user string) (string, error)
	Set(service, user, secret string) error
	Delete(service, user string) error
}

// Keyring is a Store backed by the operating system keyring.
type Keyring struct{}

func (Keyring) Get(service, user string) (string, error) {
	secret, err := keyring.Get(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return secret, err
}

func (Keyring) Set(service, user, secret string) error {
	return keyring.Set(service, user, secret)
}

func (Keyring) Delete(service, user string) error {
	err := keyring.Delete(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// Resolver looks up the API key, preferring the environment over the store.
type Resolver struct {
	store   Store
	service string
	getenv  func(string) string
}

func NewResolver(store Store, service string) *Resolver {
	return &Resolver{
		store:   store,
		service: service,
		getenv:  os.Getenv,
	}
}

// Resolve returns the API key for user.
func (r *Resolver) Resolve(user string) (string, error) {
	if key := strings.TrimSpace(r.getenv(EnvAPIKey)); key != "" {
		return key, nil
	}

	if user == "" {
		return "", fmt.Errorf("no username given and %s is not set", EnvAPIKey)
	}

	key, err := r.store.Get(r.service, user)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("no API key stored for %s/%s (run `shortlog key set %s`): %w", r.service, user, user, err)
		}
		return "", fmt.Errorf("failed to read API key from keyring: %w", err)
	}

	return key, nil
}
