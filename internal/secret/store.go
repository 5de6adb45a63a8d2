package secret

import (
	"database/sql"
	"fmt"
)

// SecretStore holds sensitive values such as session cookies. The default
// backend is the workspace database; macOS users can opt into the Keychain.
type SecretStore interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns empty slice and nil error if key does not exist.
	Get(key string) ([]byte, error)

	Delete(key string) error
}

const (
	BackendDB       = "db"
	BackendKeychain = "keychain"
)

// Open returns the SecretStore for backend. conn is only used by the db
// backend.
func Open(backend string, conn *sql.DB) (SecretStore, error) {
	switch backend {
	case "", BackendDB:
		return NewDBStore(conn), nil
	case BackendKeychain:
		return NewKeychainStore(DefaultKeychainService), nil
	default:
		return nil, fmt.Errorf("unknown secret backend %q", backend)
	}
}
