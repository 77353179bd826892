// Package credential manages the user's home-instance login and the per-instance
// OAuth application registrations.
package credential

import (
	"github.com/fedigrab-cli/fedigrab/log"
	"github.com/zalando/go-keyring"
)

// keyringService is the generic service identifier for the system keyring.
// Secrets are stored per instance host, so one account per instance.
const keyringService = "fedigrab"

// SetPassword saves the account password for an instance to the system keyring.
func SetPassword(instanceHost, password string) error {
	err := keyring.Set(keyringService, instanceHost, password)
	if err != nil {
		log.Error("Failed to save password to keyring: " + err.Error())
		return err
	}
	return nil
}

// GetPassword retrieves the account password for an instance from the system keyring.
func GetPassword(instanceHost string) (string, error) {
	password, err := keyring.Get(keyringService, instanceHost)
	if err != nil {
		// Info only, as it's common to not have a password stored yet
		log.Infof("No password in keyring for %s: %v", instanceHost, err)
		return "", err
	}
	return password, nil
}

// DeletePassword removes the stored password for an instance from the system keyring.
func DeletePassword(instanceHost string) error {
	err := keyring.Delete(keyringService, instanceHost)
	if err != nil {
		log.Error("Failed to delete password from keyring: " + err.Error())
		return err
	}
	return nil
}
