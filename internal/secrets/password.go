// Package secrets keeps the LinkedIn password in the OS keychain.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the app's secrets in the OS keychain.
const KeyringService = "linkedin-scraper"

var (
	// ErrNoPassword is returned when neither config nor keychain has one.
	ErrNoPassword = errors.New("linkedin password not found (set LINKEDIN_PASSWORD or run `credentials set`)")
	// ErrNoAccount is returned for an empty keyring account.
	ErrNoAccount = errors.New("keyring account name is empty")
)

// Password returns explicit when set, otherwise the keychain entry for
// account.
func Password(account, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if strings.TrimSpace(account) == "" {
		return "", ErrNoPassword
	}
	pw, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoPassword
	}
	if err != nil {
		return "", fmt.Errorf("read keychain: %w", err)
	}
	if strings.TrimSpace(pw) == "" {
		return "", ErrNoPassword
	}
	return pw, nil
}

func SetPassword(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return ErrNoAccount
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

func DeletePassword(account string) error {
	if strings.TrimSpace(account) == "" {
		return ErrNoAccount
	}
	if err := keyring.Delete(KeyringService, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	return nil
}
