package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveCredentialsFromBlob(t *testing.T) {
	creds, err := resolveCredentials(`{"uri":"mongodb://localhost:27017","database":"shop"}`, "nope.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.URI != "mongodb://localhost:27017" || creds.Database != "shop" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
}

func TestResolveCredentialsBlobWinsOverFile(t *testing.T) {
	path := writeCredsFile(t, `{"uri":"mongodb://file:27017"}`)
	creds, err := resolveCredentials(`{"uri":"mongodb://env:27017"}`, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.URI != "mongodb://env:27017" {
		t.Errorf("environment blob should win, got %q", creds.URI)
	}
}

func TestResolveCredentialsFromFile(t *testing.T) {
	path := writeCredsFile(t, `{"uri":"mongodb://file:27017"}`)
	creds, err := resolveCredentials("", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.URI != "mongodb://file:27017" {
		t.Errorf("unexpected uri %q", creds.URI)
	}
	if creds.Database != "bazaar" {
		t.Errorf("expected default database, got %q", creds.Database)
	}
}

func TestResolveCredentialsAbsent(t *testing.T) {
	_, err := resolveCredentials("", filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}

func TestResolveCredentialsMalformed(t *testing.T) {
	_, err := resolveCredentials(`{not json`, "nope.json")
	if err == nil || errors.Is(err, ErrNoCredentials) {
		t.Errorf("malformed blob must be a distinct error, got %v", err)
	}

	path := writeCredsFile(t, `{"database":"no-uri"}`)
	if _, err := resolveCredentials("", path); err == nil {
		t.Error("credentials without a uri must be rejected")
	}
}

func writeCredsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store_credentials.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
