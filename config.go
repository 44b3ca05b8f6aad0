package ttraw

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// fileConfig is the TOML wire shape of a config file:
//
//	[credentials]
//	client_key = "..."
//	client_secret = "..."
//
//	[api]
//	base_url = "https://open.tiktokapis.com/v2/"
//
//	[token]
//	cache_path = "tiktok_token.json"
//	disable_cache = false
type fileConfig struct {
	Credentials struct {
		ClientKey    string `toml:"client_key"`
		ClientSecret string `toml:"client_secret"`
	} `toml:"credentials"`
	API struct {
		BaseURL string `toml:"base_url"`
	} `toml:"api"`
	Token struct {
		CachePath    string `toml:"cache_path"`
		DisableCache bool   `toml:"disable_cache"`
	} `toml:"token"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path. Fields left empty in the file keep the client defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &Config{
		ClientKey:         fc.Credentials.ClientKey,
		ClientSecret:      fc.Credentials.ClientSecret,
		BaseURL:           fc.API.BaseURL,
		TokenCachePath:    fc.Token.CachePath,
		DisableTokenCache: fc.Token.DisableCache,
	}, nil
}
