package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/TheCleopatra/tradingflow-aptos-contract/internal/account"
)

// DefaultListen is used when neither a listen address nor a port is configured.
const DefaultListen = ":3000"

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Network           string
	NodeURL           string
	DexURL            string
	DexAPIKey         string
	ContractAddress   string
	AdminPrivateKey   string
	UserPrivateKey    string
	BotPrivateKey     string
	Listen            string
	CORSOrigins       []string
	LookupConcurrency int
	Journal           string
	PGDSN             string
	LogLevel          string
}

// envAliases lists the environment variables read for each key, in priority order.
var envAliases = map[string][]string{
	"network":           {"TRADINGFLOW_NETWORK", "APTOS_NETWORK"},
	"node-url":          {"TRADINGFLOW_NODE_URL", "APTOS_NODE_URL"},
	"dex-api-key":       {"TRADINGFLOW_DEX_API_KEY", "APTOS_GRAPHQL_API_KEY", "APTOS_API_KEY"},
	"contract-address":  {"TRADINGFLOW_CONTRACT_ADDRESS", "TRADINGFLOW_VAULT_ADDRESS", "CONTRACT_ADDRESS"},
	"admin-private-key": {"TRADINGFLOW_ADMIN_PRIVATE_KEY", "ADMIN_PRIVATE_KEY"},
	"user-private-key":  {"TRADINGFLOW_USER_PRIVATE_KEY", "USER_PRIVATE_KEY"},
	"bot-private-key":   {"TRADINGFLOW_BOT_PRIVATE_KEY", "BOT_PRIVATE_KEY"},
	"port":              {"TRADINGFLOW_PORT", "PORT"},
}

// Load merges .env, config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	if err := loadDotenv(".env"); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("TRADINGFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetDefault("network", "mainnet")
	v.SetDefault("cors-origins", []string{"*"})
	v.SetDefault("lookup-concurrency", 8)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Network:           v.GetString("network"),
		NodeURL:           v.GetString("node-url"),
		DexURL:            v.GetString("dex-url"),
		DexAPIKey:         v.GetString("dex-api-key"),
		ContractAddress:   v.GetString("contract-address"),
		AdminPrivateKey:   v.GetString("admin-private-key"),
		UserPrivateKey:    v.GetString("user-private-key"),
		BotPrivateKey:     v.GetString("bot-private-key"),
		Listen:            listenAddress(v, flags),
		CORSOrigins:       getStringSlice(v, "cors-origins"),
		LookupConcurrency: v.GetInt("lookup-concurrency"),
		Journal:           v.GetString("journal"),
		PGDSN:             v.GetString("pg-dsn"),
		LogLevel:          v.GetString("log-level"),
	}

	return cfg, nil
}

// Keys returns the configured private keys per signer role.
func (c Config) Keys() account.Keys {
	return account.Keys{Admin: c.AdminPrivateKey, User: c.UserPrivateKey, Bot: c.BotPrivateKey}
}

// RedactDSN hides the password of a connection string.
func RedactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

// loadDotenv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// listenAddress prefers a listen address given by flag, env or config file,
// then a bare port, then DefaultListen. Flag defaults do not count.
func listenAddress(v *viper.Viper, flags *pflag.FlagSet) string {
	explicit := v.InConfig("listen")
	if flags != nil && flags.Changed("listen") {
		explicit = true
	}
	if val, ok := os.LookupEnv("TRADINGFLOW_LISTEN"); ok && strings.TrimSpace(val) != "" {
		explicit = true
	}
	if explicit {
		return v.GetString("listen")
	}
	if port := strings.TrimSpace(v.GetString("port")); port != "" {
		return ":" + strings.TrimPrefix(port, ":")
	}
	return DefaultListen
}

func getStringSlice(v *viper.Viper, key string) []string {
	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
