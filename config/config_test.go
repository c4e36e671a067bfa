package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `api:
  address: ":8080"
elia:
  page_size: 50
entsoe:
  security_token: "tok"
forecast:
  lookback_days: 3
factors:
  wind: 12.5
  fuels:
    Nuclear: 6
metrics:
  prometheus_enabled: true
  prometheus_port: ":9100"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"api.address", cfg.API.Address, ":8080"},
		{"elia.page_size", cfg.Elia.PageSize, 50},
		{"elia.base_url_default", cfg.Elia.BaseURL, "https://opendata.elia.be/api/explore/v2.1/catalog/datasets"},
		{"entsoe.security_token", cfg.Entsoe.SecurityToken, "tok"},
		{"entsoe.domain_default", cfg.Entsoe.Domain, "10YBE----------2"},
		{"forecast.lookback_days", cfg.Forecast.LookbackDays, 3},
		{"metrics.prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"metrics.prometheus_port", cfg.Metrics.PrometheusPort, ":9100"},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.client_id_default", cfg.MQTT.ClientID, "carbonsaver"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}

	factors := cfg.Factors.EmissionFactors()
	if factors.Wind != 12.5 || factors.Solar != 15 {
		t.Errorf("factor override mismatch: %+v", factors)
	}
	fuels := cfg.Factors.FuelFactors()
	if fuels["Nuclear"] != 6 || fuels["Fossil Gas"] != 490 {
		t.Errorf("fuel override mismatch: %v", fuels)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("api:\n  address: \":8080\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CS_ENTSOE__SECURITY_TOKEN", "env-token")
	t.Setenv("CS_API__ADDRESS", ":9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Entsoe.SecurityToken != "env-token" {
		t.Fatalf("env override not applied: %q", cfg.Entsoe.SecurityToken)
	}
	if cfg.API.Address != ":9999" {
		t.Fatalf("env override must win over the file value: %q", cfg.API.Address)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestFactorsValidate(t *testing.T) {
	neg := -1.0
	cfg := FactorsConfig{Wind: &neg}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative factor")
	}
	cfg = FactorsConfig{Fuels: map[string]float64{"Nuclear": -5}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative fuel factor")
	}
	if err := (FactorsConfig{}).Validate(); err != nil {
		t.Fatalf("empty config should validate: %v", err)
	}
}
