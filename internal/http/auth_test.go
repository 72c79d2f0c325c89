package http

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadStaticTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens")
	content := `# development tokens
ada-token ada@example.com Ada Lovelace

bob-token bob@example.com
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write tokens file: %v", err)
	}

	auth, err := LoadStaticTokens(path)
	if err != nil {
		t.Fatalf("LoadStaticTokens: %v", err)
	}

	identity, err := auth.Authenticate(context.Background(), "ada-token")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if identity.Email != "ada@example.com" || identity.Name != "Ada Lovelace" {
		t.Errorf("identity: %+v", identity)
	}

	identity, err = auth.Authenticate(context.Background(), "bob-token")
	if err != nil {
		t.Fatalf("Authenticate bob: %v", err)
	}
	if identity.Name != "" {
		t.Errorf("name should be empty: %+v", identity)
	}

	if _, err := auth.Authenticate(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown token")
	}
}

func TestLoadStaticTokensMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens")
	if err := os.WriteFile(path, []byte("just-a-token\n"), 0600); err != nil {
		t.Fatalf("write tokens file: %v", err)
	}
	if _, err := LoadStaticTokens(path); err == nil {
		t.Error("expected error for malformed line")
	}
}
