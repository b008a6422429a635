package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV_FILE", "")
	t.Setenv("DB_DATABASE", "sheets.db")
	t.Setenv("DB_TYPE", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBType != "sqlite" {
		t.Errorf("DBType = %q, want sqlite", cfg.DBType)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.SessionCookie != "cookie_session" {
		t.Errorf("SessionCookie = %q, want cookie_session", cfg.SessionCookie)
	}
	if cfg.SheetListLimit != 100 {
		t.Errorf("SheetListLimit = %d, want 100", cfg.SheetListLimit)
	}
	if cfg.AuthzRedirectURL != "http://localhost:3000" {
		t.Errorf("AuthzRedirectURL = %q", cfg.AuthzRedirectURL)
	}
}

func TestLoadRequiresDatabase(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV_FILE", "")
	t.Setenv("DB_DATABASE", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DB_DATABASE is missing")
	}
}

func TestLoadRequiresUserForServerDatabases(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV_FILE", "")
	t.Setenv("DB_DATABASE", "sheets")
	t.Setenv("DB_TYPE", "mysql")
	t.Setenv("DB_USER", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DB_USER is missing for mysql")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("DB_DATABASE=fromfile.db\nSHEET_LIST_LIMIT=25\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set
	os.Unsetenv("DB_DATABASE")
	os.Unsetenv("SHEET_LIST_LIMIT")
	t.Setenv("ENV_FILE", envPath)
	t.Cleanup(func() {
		os.Unsetenv("DB_DATABASE")
		os.Unsetenv("SHEET_LIST_LIMIT")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBDatabase != "fromfile.db" {
		t.Errorf("DBDatabase = %q, want fromfile.db", cfg.DBDatabase)
	}
	if cfg.SheetListLimit != 25 {
		t.Errorf("SheetListLimit = %d, want 25", cfg.SheetListLimit)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV_FILE", "does-not-exist.env")
	t.Setenv("DB_DATABASE", "sheets.db")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for a missing explicit ENV_FILE")
	}
}

func TestRequireAuthorizer(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireAuthorizer(); err == nil {
		t.Error("expected error without AUTHZ_URL")
	}
	cfg.AuthzURL = "http://authorizer:8080"
	if err := cfg.RequireAuthorizer(); err == nil {
		t.Error("expected error without AUTHZ_CLIENT_ID")
	}
	cfg.AuthzClientID = "client"
	if err := cfg.RequireAuthorizer(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
