package keystore

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

// Backend selects where the backend API key is stored.
type Backend string

const (
	BackendEnv     Backend = "env"
	BackendFile    Backend = "file"
	BackendKeyring Backend = "keyring"
)

const (
	// envKeyName is the environment variable holding the backend API key.
	envKeyName = "OPENAI_API_KEY"

	keyringService = "odette-proxy"
	keyringUser    = "backend-api-key"
)

// ErrReadOnly is returned when writing to a storage backend that cannot be
// written through the CLI (the env backend).
var ErrReadOnly = errors.New("storage backend is read-only")

// Store reads and writes the backend API key.
//
// TokenSource returns nil when no key is available at the time of the call,
// which callers use to build an unauthenticated transport.
type Store interface {
	TokenSource() oauth2.TokenSource
	Write(key string) error
	Clear() error
}

// New builds the store for the given backend. keyFile is only used by the
// file backend.
func New(backend Backend, keyFile string) (Store, error) {
	switch backend {
	case BackendEnv:
		return envStore{}, nil
	case BackendFile:
		if keyFile == "" {
			return nil, errors.New("file storage backend requires a key file path")
		}
		return fileStore{path: keyFile}, nil
	case BackendKeyring:
		return keyringStore{}, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// envStore reads the key from the environment. It cannot be written: the
// variable belongs to the invoking shell, not to this process.
type envStore struct{}

func (envStore) TokenSource() oauth2.TokenSource {
	key := strings.TrimSpace(os.Getenv(envKeyName))
	if key == "" {
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: key})
}

func (envStore) Write(string) error {
	return fmt.Errorf("%w: set %s in the environment instead", ErrReadOnly, envKeyName)
}

func (envStore) Clear() error {
	return fmt.Errorf("%w: unset %s in the environment instead", ErrReadOnly, envKeyName)
}

// fileStore keeps the key in a plain file with owner-only permissions. Token
// re-reads the file on every use so a rotated key takes effect without a
// restart.
type fileStore struct {
	path string
}

func (s fileStore) TokenSource() oauth2.TokenSource {
	if _, err := os.Stat(s.path); err != nil {
		return nil
	}
	return fileTokenSource{path: s.path}
}

func (s fileStore) Write(key string) error {
	if err := os.WriteFile(s.path, []byte(key+"\n"), 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

func (s fileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove key file: %w", err)
	}
	return nil
}

type fileTokenSource struct {
	path string
}

func (s fileTokenSource) Token() (*oauth2.Token, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	key := strings.TrimSpace(string(raw))
	if key == "" {
		return nil, fmt.Errorf("key file %s is empty", s.path)
	}
	return &oauth2.Token{AccessToken: key}, nil
}

// keyringStore keeps the key in the OS keyring.
type keyringStore struct{}

func (keyringStore) TokenSource() oauth2.TokenSource {
	if _, err := keyring.Get(keyringService, keyringUser); err != nil {
		return nil
	}
	return keyringTokenSource{}
}

func (keyringStore) Write(key string) error {
	if err := keyring.Set(keyringService, keyringUser, key); err != nil {
		return fmt.Errorf("store key in keyring: %w", err)
	}
	return nil
}

func (keyringStore) Clear() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("remove key from keyring: %w", err)
	}
	return nil
}

type keyringTokenSource struct{}

func (keyringTokenSource) Token() (*oauth2.Token, error) {
	key, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		return nil, fmt.Errorf("read key from keyring: %w", err)
	}
	return &oauth2.Token{AccessToken: key}, nil
}
