package delivery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// StoreInfo points at one orderable store page for an address.
type StoreInfo struct {
	URL       string `json:"url"`
	StoreName string `json:"store_name"`
}

// AddressInfo is one saved delivery destination.
type AddressInfo struct {
	Address string               `json:"address"`
	Stores  map[string]StoreInfo `json:"stores"`
}

// Config is the only durable cross-run state of the assistant: saved
// addresses and the menu alias table. Loaded once at startup.
type Config struct {
	Addresses   map[string]AddressInfo `json:"addresses"`
	MenuAliases map[string][]string    `json:"menu_aliases"`
}

func defaultConfig() *Config {
	return &Config{
		Addresses: map[string]AddressInfo{
			"송도집": {
				Address: "인천광역시 연수구 송도동",
				Stores: map[string]StoreInfo{
					"롯데리아": {
						URL:       "https://www.lotteeatz.com/hsv/products/10/12408?lng=126.63986311482&lat=37.3974255837096",
						StoreName: "롯데리아 센트럴파크점",
					},
				},
			},
			"서울집": {
				Address: "서울특별시",
				Stores:  map[string]StoreInfo{},
			},
		},
		MenuAliases: map[string][]string{
			"한우불고기버거": {"불고기", "한우불고기", "bulgogi", "korean beef", "korean beef bulgogi", "beef bulgogi"},
			"치킨버거":    {"치킨", "chicken", "chicken burger"},
			"새우버거":    {"새우", "shrimp", "shrimp burger"},
			"치즈스틱":    {"치즈스틱", "cheese stick", "mozzarella"},
		},
	}
}

// LoadConfig reads the delivery config, materializing and persisting the
// default on first run so the user has a file to edit.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := defaultConfig()
		out, merr := json.MarshalIndent(cfg, "", "  ")
		if merr != nil {
			return nil, fmt.Errorf("marshal default config: %w", merr)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create config dir: %w", err)
			}
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// FindMenuMatch maps a spoken menu phrase onto a canonical menu name via
// the alias table: name substring first, then alias substring in either
// direction. An unknown phrase passes through unchanged and is tried
// against the page as-is.
func (c *Config) FindMenuMatch(query string) string {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	for menuName, aliases := range c.MenuAliases {
		if strings.Contains(strings.ToLower(menuName), queryLower) {
			return menuName
		}
		for _, alias := range aliases {
			aliasLower := strings.ToLower(alias)
			if strings.Contains(queryLower, aliasLower) || strings.Contains(aliasLower, queryLower) {
				return menuName
			}
		}
	}
	return query
}
