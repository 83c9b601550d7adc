package config

import (
	"testing"
)

func TestEnsureDSNPrefersExplicitValue(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{DSN: "postgres://app:secret@db:5432/shop"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://app:secret@db:5432/shop" {
		t.Fatalf("dsn overwritten: %s", cfg.DSN)
	}
}

func TestEnsureDSNBuildsFromLegacyParts(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{
		LegacyHost:     "localhost",
		LegacyPort:     5432,
		LegacyUser:     "shop",
		LegacyPassword: "pw",
		LegacyName:     "petitmarche",
		LegacySSLMode:  "disable",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "postgres://shop:pw@localhost:5432/petitmarche?sslmode=disable"
	if cfg.DSN != want {
		t.Fatalf("unexpected dsn: %s", cfg.DSN)
	}
}

func TestEnsureDSNRequiresLegacyParts(t *testing.T) {
	t.Parallel()

	cfg := DBConfig{LegacyHost: "localhost"}
	if err := cfg.ensureDSN(); err == nil {
		t.Fatalf("expected error when user/name missing")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	t.Parallel()

	app := AppConfig{Env: "Dev"}
	if !app.IsDev() || app.IsProd() {
		t.Fatalf("dev detection broken")
	}
	app.Env = "PROD"
	if !app.IsProd() || app.IsDev() {
		t.Fatalf("prod detection broken")
	}
}
