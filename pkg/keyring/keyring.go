// Package keyring resolves connection secrets. Passwords in connect
// requests and profiles may be written as "keyring:<account>" and are looked
// up in the OS keyring, or in an encrypted file on headless hosts.
package keyring

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/zalando/go-keyring"
)

// Service is the keyring service name every driverhub secret is stored under.
const Service = "redb-driverhub"

// ReferencePrefix marks a password value as a keyring reference.
const ReferencePrefix = "keyring:"

// ErrNotFound is returned when no secret exists for an account.
var ErrNotFound = errors.New("keyring: secret not found")

// Store is the lookup surface used by the rest of the module.
type Store interface {
	Get(service, account string) (string, error)
	Set(service, account, secret string) error
	Delete(service, account string) error
}

// Reference extracts the account from a "keyring:<account>" value.
func Reference(value string) (string, bool) {
	if !strings.HasPrefix(value, ReferencePrefix) {
		return "", false
	}
	account := strings.TrimSpace(strings.TrimPrefix(value, ReferencePrefix))
	return account, account != ""
}

// Resolve returns value unchanged unless it is a keyring reference, in which
// case the referenced secret is fetched from store.
func Resolve(store Store, value string) (string, error) {
	account, ok := Reference(value)
	if !ok {
		if strings.HasPrefix(value, ReferencePrefix) {
			return "", fmt.Errorf("keyring reference %q has no account", value)
		}
		return value, nil
	}
	if store == nil {
		return "", fmt.Errorf("keyring reference %q: no keyring configured", account)
	}
	secret, err := store.Get(Service, account)
	if err != nil {
		return "", fmt.Errorf("keyring reference %q: %w", account, err)
	}
	return secret, nil
}

// System is the OS keyring (Secret Service, Keychain, Credential Manager).
type System struct{}

func (System) Get(service, account string) (string, error) {
	s, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return s, err
}

func (System) Set(service, account, secret string) error {
	return keyring.Set(service, account, secret)
}

func (System) Delete(service, account string) error {
	err := keyring.Delete(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

var (
	checkOnce sync.Once
	systemOK  bool
)

// systemAvailable round-trips a throwaway entry. D-Bus lookups can hang on
// hosts without a session bus, so the check is bounded.
func systemAvailable() bool {
	checkOnce.Do(func() {
		done := make(chan error, 1)
		go func() {
			err := keyring.Set(Service+"-check", "check", "check")
			if err == nil {
				_ = keyring.Delete(Service+"-check", "check")
			}
			done <- err
		}()
		select {
		case err := <-done:
			systemOK = err == nil
		case <-time.After(5 * time.Second):
		}
	})
	return systemOK
}

// Open returns the OS keyring when it works and falls back to a FileStore at
// path (DefaultPath when empty) otherwise.
func Open(path, masterPassword string) (Store, error) {
	if systemAvailable() {
		return System{}, nil
	}
	if path == "" {
		path = DefaultPath()
	}
	fs, err := NewFileStore(path, masterPassword)
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// MasterPasswordFromEnv reads REDB_KEYRING_PASSWORD.
func MasterPasswordFromEnv() string {
	return os.Getenv("REDB_KEYRING_PASSWORD")
}

// DefaultPath is ~/.config/redb/driverhub-keyring.json, or a temp path when
// no home directory is known.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "redb-driverhub-keyring.json")
	}
	return filepath.Join(home, ".config", "redb", "driverhub-keyring.json")
}
