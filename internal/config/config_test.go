package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/pflag"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, names := range envAliases {
		for _, name := range names {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	for _, name := range []string{"TRADINGFLOW_LISTEN", "TRADINGFLOW_LOG_LEVEL", "TRADINGFLOW_CORS_ORIGINS", "TRADINGFLOW_DEX_URL"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("network", "mainnet", "")
	flags.String("listen", ":3000", "")
	flags.String("log-level", "info", "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("", newFlags())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network != "mainnet" || cfg.Listen != ":3000" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"*"}) {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if cfg.LookupConcurrency != 8 || cfg.Journal != "" || cfg.PGDSN != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadEnvAliases(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("APTOS_NETWORK", "testnet")
	t.Setenv("APTOS_GRAPHQL_API_KEY", "graphql-key")
	t.Setenv("TRADINGFLOW_VAULT_ADDRESS", "0xabc")
	t.Setenv("ADMIN_PRIVATE_KEY", "0x01")
	t.Setenv("BOT_PRIVATE_KEY", "0x02")
	t.Setenv("PORT", "8080")
	t.Setenv("TRADINGFLOW_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network != "testnet" || cfg.DexAPIKey != "graphql-key" || cfg.ContractAddress != "0xabc" {
		t.Fatalf("aliases not applied: %+v", cfg)
	}
	keys := cfg.Keys()
	if keys.Admin != "0x01" || keys.Bot != "0x02" || keys.User != "" {
		t.Fatalf("unexpected keys: %+v", keys)
	}
	if cfg.Listen != ":8080" {
		t.Fatalf("expected listen from PORT, got %q", cfg.Listen)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("TRADINGFLOW_NETWORK", "devnet")
	t.Setenv("PORT", "8080")

	flags := newFlags()
	if err := flags.Parse([]string{"--network", "localnet", "--listen", "127.0.0.1:9000"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network != "localnet" || cfg.Listen != "127.0.0.1:9000" {
		t.Fatalf("flags did not win: %+v", cfg)
	}
}

func TestLoadListenPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		args   []string
		expect string
	}{
		{name: "default", expect: ":3000"},
		{name: "port with unchanged flag", env: map[string]string{"PORT": "8080"}, expect: ":8080"},
		{name: "prefixed port", env: map[string]string{"TRADINGFLOW_PORT": "9090", "PORT": "8080"}, expect: ":9090"},
		{name: "listen env beats port", env: map[string]string{"TRADINGFLOW_LISTEN": "0.0.0.0:7000", "PORT": "8080"}, expect: "0.0.0.0:7000"},
		{name: "listen flag beats port", env: map[string]string{"PORT": "8080"}, args: []string{"--listen", ":9999"}, expect: ":9999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			flags := newFlags()
			if err := flags.Parse(tt.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}
			cfg, err := Load("", flags)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Listen != tt.expect {
				t.Fatalf("expected listen %q, got %q", tt.expect, cfg.Listen)
			}
		})
	}
}

func TestLoadConfigFileAndDotenv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("USER_PRIVATE_KEY=0x03\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	cfgPath := filepath.Join(dir, "tradingflow.yaml")
	content := "network: testnet\nlookup-concurrency: 3\njournal: ./data/tx.jsonl\nlisten: 127.0.0.1:4000\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("USER_PRIVATE_KEY") })
	t.Setenv("PORT", "8080")

	cfg, err := Load(cfgPath, newFlags())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Network != "testnet" || cfg.LookupConcurrency != 3 || cfg.Journal != "./data/tx.jsonl" {
		t.Fatalf("config file not applied: %+v", cfg)
	}
	if cfg.Listen != "127.0.0.1:4000" {
		t.Fatalf("config file listen should beat PORT, got %q", cfg.Listen)
	}
	if cfg.UserPrivateKey != "0x03" {
		t.Fatalf(".env not applied: %+v", cfg.Keys())
	}
}

func TestRedactDSN(t *testing.T) {
	got := RedactDSN("postgres://app:s3cret@db:5432/tradingflow?sslmode=disable")
	if got != "postgres://app:xxxxx@db:5432/tradingflow?sslmode=disable" {
		t.Fatalf("unexpected redaction: %s", got)
	}
	if got := RedactDSN("host=db user=app"); got != "host=db user=app" {
		t.Fatalf("unexpected redaction: %s", got)
	}
}
