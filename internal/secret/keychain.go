package secret

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultKeychainService is the Keychain service name session cookies are
// filed under.
const DefaultKeychainService = "pagebuilder-session"

// errItemNotFound is the exit status `security` uses for a missing item.
const errItemNotFound = 44

// KeychainStore keeps secrets in the macOS Keychain by shelling out to the
// `security` tool. Each key is stored as the account of a generic password
// under one service.
type KeychainStore struct {
	service string
	command string
}

func NewKeychainStore(service string) *KeychainStore {
	if service == "" {
		service = DefaultKeychainService
	}
	return &KeychainStore{service: service, command: "security"}
}

// Set writes value under key. -U updates an existing item in place.
func (k *KeychainStore) Set(key string, value []byte) error {
	_, err := k.run("add-generic-password", "-a", key, "-s", k.service, "-w", string(value), "-U")
	if err != nil {
		return fmt.Errorf("keychain set %s: %w", key, err)
	}
	return nil
}

// Get returns nil, nil when no item exists for key.
func (k *KeychainStore) Get(key string) ([]byte, error) {
	out, err := k.run("find-generic-password", "-a", key, "-s", k.service, "-w")
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("keychain get %s: %w", key, err)
	}
	return []byte(strings.TrimRight(out, "\r\n")), nil
}

func (k *KeychainStore) Delete(key string) error {
	_, err := k.run("delete-generic-password", "-a", key, "-s", k.service)
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("keychain delete %s: %w", key, err)
	}
	return nil
}

// run executes one `security` subcommand and returns its stdout. Failures
// carry stderr in the message and keep the *exec.ExitError in the chain.
func (k *KeychainStore) run(args ...string) (string, error) {
	var stderr strings.Builder
	cmd := exec.Command(k.command, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w", msg, err)
		}
		return "", err
	}
	return string(out), nil
}

func isNotFound(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == errItemNotFound
}
