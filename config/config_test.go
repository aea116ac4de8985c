package config

import (
	"os"
	"testing"
)

// clearEnv removes a variable for the test's duration; t.Setenv
// restores the original value during cleanup.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, "STORAGE_BACKEND", "PORT", "MONGO_URI", "MONGO_DB", "DYNAMO_TABLE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend != BackendMongo {
		t.Errorf("default backend = %q, want %q", cfg.Backend, BackendMongo)
	}
	if cfg.Port != "8080" {
		t.Errorf("default port = %q, want 8080", cfg.Port)
	}
	if cfg.Mongo.DatabaseName != "maplenotes" {
		t.Errorf("default database = %q, want maplenotes", cfg.Mongo.DatabaseName)
	}
	if cfg.Dynamo.TableName != "maplenotes" {
		t.Errorf("default table = %q, want maplenotes", cfg.Dynamo.TableName)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "dynamo")
	t.Setenv("DYNAMO_ENDPOINT", "http://localhost:8000")
	t.Setenv("DYNAMO_CREATE_TABLE", "true")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend != BackendDynamo {
		t.Errorf("backend = %q, want %q", cfg.Backend, BackendDynamo)
	}
	if cfg.Dynamo.Endpoint != "http://localhost:8000" {
		t.Errorf("endpoint = %q", cfg.Dynamo.Endpoint)
	}
	if !cfg.Dynamo.CreateTable {
		t.Error("expected CreateTable to be enabled")
	}
	if cfg.Port != "9090" {
		t.Errorf("port = %q, want 9090", cfg.Port)
	}
}

func TestLoadUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cassandra")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an unknown backend")
	}
}
