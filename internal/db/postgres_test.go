package db

import (
	"strings"
	"testing"
)

func TestSettingsFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_SSLMODE", "")

	s := SettingsFromEnv()
	if s.Port != "5432" {
		t.Errorf("Expected default port 5432, got %s", s.Port)
	}
	if s.SSLMode != "disable" {
		t.Errorf("Expected default sslmode disable, got %s", s.SSLMode)
	}
}

func TestSettings_DSN(t *testing.T) {
	s := Settings{Host: "db", Port: "5433", User: "portal", Password: "secret", Name: "medgpt", SSLMode: "require"}
	dsn, err := s.DSN()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, part := range []string{"host=db", "port=5433", "user=portal", "dbname=medgpt", "sslmode=require"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("Expected DSN to contain %q, got %q", part, dsn)
		}
	}
}

func TestSettings_DSNMissingValues(t *testing.T) {
	if _, err := (Settings{Host: "db"}).DSN(); err == nil {
		t.Error("Expected error for incomplete settings")
	}
}

func TestSchemaEmbedded(t *testing.T) {
	if !strings.Contains(schemaSQL, "portal_local_storage") {
		t.Error("Expected embedded schema to create portal_local_storage")
	}
}
