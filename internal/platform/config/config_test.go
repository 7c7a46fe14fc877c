package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(context.Background(), WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.PriceBoard.Endpoint != defaultBoardEndpoint {
		t.Errorf("expected default board endpoint, got %s", cfg.PriceBoard.Endpoint)
	}
	if cfg.PriceBoard.RefreshInterval != defaultBoardRefreshInterval {
		t.Errorf("unexpected board refresh interval: %s", cfg.PriceBoard.RefreshInterval)
	}
	if cfg.Geo.NominatimBaseURL != defaultNominatimBaseURL {
		t.Errorf("unexpected nominatim url: %s", cfg.Geo.NominatimBaseURL)
	}
	if cfg.Geo.OriginPostalCode != defaultOriginPostalCode {
		t.Errorf("unexpected origin postal code: %s", cfg.Geo.OriginPostalCode)
	}
	if cfg.Geo.Country != "Germany" {
		t.Errorf("unexpected country: %s", cfg.Geo.Country)
	}
	if cfg.Jobs.OrderTopic != defaultOrderTopic {
		t.Errorf("unexpected order topic: %s", cfg.Jobs.OrderTopic)
	}
	if cfg.Idempotency.Header != defaultIdempotencyHeader {
		t.Errorf("expected default idempotency header, got %s", cfg.Idempotency.Header)
	}
	if !cfg.Features.EnableBoardSync {
		t.Errorf("expected board sync enabled by default")
	}
}

func TestLoadWithOverridesAndSecrets(t *testing.T) {
	env := map[string]string{
		"API_SERVER_PORT":                 "9090",
		"API_SERVER_READ_TIMEOUT":         "20s",
		"API_FIRESTORE_PROJECT_ID":        "lichtwerk-prod",
		"API_PRICEBOARD_TOKEN":            "secret://board/token",
		"API_PRICEBOARD_BOARD_ID":         "1234567",
		"API_PRICEBOARD_REFRESH_INTERVAL": "5m",
		"API_GEO_ORIGIN_POSTAL_CODE":      "10115",
		"API_GEO_REQUEST_TIMEOUT":         "4s",
		"API_PSP_STRIPE_API_KEY":          "secret://stripe/api",
		"API_JOBS_ORDER_TOPIC":            "orders-prod",
		"API_FEATURE_BOARD_SYNC":          "false",
	}

	secrets := map[string]string{
		"secret://board/token": "board-token",
		"secret://stripe/api":  "stripe-key",
	}

	resolver := SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
		if v, ok := secrets[ref]; ok {
			return v, nil
		}
		return "", &SecretError{Ref: ref, Err: errSecretResolverNotConfigured}
	})

	cfg, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""), WithSecretResolver(resolver))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("unexpected port: %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 20*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.PriceBoard.APIToken != "board-token" {
		t.Errorf("expected resolved board token, got %q", cfg.PriceBoard.APIToken)
	}
	if cfg.PriceBoard.BoardID != "1234567" {
		t.Errorf("unexpected board id: %s", cfg.PriceBoard.BoardID)
	}
	if cfg.PriceBoard.RefreshInterval != 5*time.Minute {
		t.Errorf("unexpected refresh interval: %s", cfg.PriceBoard.RefreshInterval)
	}
	if cfg.Geo.OriginPostalCode != "10115" {
		t.Errorf("unexpected origin postal code: %s", cfg.Geo.OriginPostalCode)
	}
	if cfg.Geo.RequestTimeout != 4*time.Second {
		t.Errorf("unexpected geo timeout: %s", cfg.Geo.RequestTimeout)
	}
	if cfg.PSP.StripeAPIKey != "stripe-key" {
		t.Errorf("expected resolved stripe key, got %q", cfg.PSP.StripeAPIKey)
	}
	if cfg.Jobs.OrderTopic != "orders-prod" {
		t.Errorf("unexpected order topic: %s", cfg.Jobs.OrderTopic)
	}
	if cfg.Features.EnableBoardSync {
		t.Errorf("expected board sync disabled")
	}
}

func TestLoadSecretResolutionFailure(t *testing.T) {
	env := map[string]string{
		"API_PSP_STRIPE_API_KEY": "secret://stripe/api",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatalf("expected error for unresolvable secret")
	}
	var secretErr *SecretError
	if !errors.As(err, &secretErr) {
		t.Fatalf("expected SecretError, got %T", err)
	}
	if secretErr.Ref != "secret://stripe/api" {
		t.Errorf("unexpected secret ref: %s", secretErr.Ref)
	}
}

func TestLoadRequiredSecretsMissing(t *testing.T) {
	_, err := Load(context.Background(),
		WithEnvMap(map[string]string{}),
		WithoutSystemEnv(),
		WithEnvFile(""),
		WithRequiredSecrets("PriceBoard.APIToken"),
	)
	if err == nil {
		t.Fatalf("expected missing secret error")
	}
	var missing *MissingSecretsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingSecretsError, got %T", err)
	}
	names := missing.Names()
	if len(names) != 1 || names[0] != "PriceBoard.APIToken" {
		t.Errorf("unexpected missing secret names: %v", names)
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	contents := "API_SERVER_PORT=7070\nexport API_GEO_COUNTRY=\"Deutschland\"\n# comment\n"
	if err := os.WriteFile(envPath, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing env file: %v", err)
	}

	cfg, err := Load(context.Background(), WithoutSystemEnv(), WithEnvFile(envPath))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from dotenv, got %s", cfg.Server.Port)
	}
	if cfg.Geo.Country != "Deutschland" {
		t.Errorf("expected country from dotenv, got %s", cfg.Geo.Country)
	}
}

func TestValidateConfigRejectsInvalidDurations(t *testing.T) {
	env := map[string]string{
		"API_PRICEBOARD_REFRESH_INTERVAL": "-1m",
	}

	_, err := Load(context.Background(), WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := validation.Fields()
	if len(fields) != 1 || fields[0] != "PriceBoard.RefreshInterval" {
		t.Errorf("unexpected invalid fields: %v", fields)
	}
}
