package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shashiranjanraj/bazaar/config"
)

// Credentials locate the document-store database.
type Credentials struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

// ErrNoCredentials signals that neither the environment blob nor the local
// credentials file is present. The caller degrades to the in-memory store.
var ErrNoCredentials = errors.New("store: no credentials configured")

// ResolveCredentials performs the one-shot credential resolution: the
// STORE_CREDENTIALS environment blob wins, the local credentials file is
// the fallback source. Malformed JSON from either source is an error (the
// selector treats it the same as absence and degrades).
func ResolveCredentials() (Credentials, error) {
	return resolveCredentials(config.StoreCredentialsBlob(), config.StoreCredentialsFile())
}

func resolveCredentials(blob, path string) (Credentials, error) {
	if strings.TrimSpace(blob) != "" {
		return parseCredentials([]byte(blob), "environment")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, ErrNoCredentials
		}
		return Credentials{}, fmt.Errorf("store: read credentials file: %w", err)
	}
	return parseCredentials(data, path)
}

func parseCredentials(data []byte, source string) (Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("store: decode credentials from %s: %w", source, err)
	}
	if strings.TrimSpace(creds.URI) == "" {
		return Credentials{}, fmt.Errorf("store: credentials from %s missing uri", source)
	}
	if strings.TrimSpace(creds.Database) == "" {
		creds.Database = "bazaar"
	}
	return creds, nil
}
