package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Source kinds accepted in a building entry.
const (
	SourceAvalon = "avalon"
	SourceEquity = "equity"
)

type Building struct {
	Name          string `yaml:"name"`
	Source        string `yaml:"source"`
	CommunityCode string `yaml:"community_code,omitempty"` // avalon only
	URLPath       string `yaml:"url_path,omitempty"`       // equity only
}

type Config struct {
	Buildings []Building `yaml:"buildings"`

	Scrape struct {
		UserAgent      string  `yaml:"user_agent"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		RequestsPerSec float64 `yaml:"requests_per_sec"`
		Burst          int     `yaml:"burst"`
		Parallel       bool    `yaml:"parallel"`
		MaxInFlight    int     `yaml:"max_in_flight"`
	} `yaml:"scrape"`
}

// Default is the built-in registry, used when no config file is present.
// It matches the shipped config/config.yml.
func Default() Config {
	var cfg Config
	cfg.Buildings = []Building{
		{Name: "Avalon Mission Bay", Source: SourceAvalon, CommunityCode: "CA067"},
		{Name: "Avalon San Bruno", Source: SourceAvalon, CommunityCode: "CA583"},
		{Name: "La Terraza", Source: SourceEquity,
			URLPath: "san-francisco-bay/colma/la-terrazza-apartments"},
		{Name: "South City Station", Source: SourceEquity,
			URLPath: "san-francisco-bay/south-san-francisco/south-city-station-apartments"},
	}
	cfg.Scrape.TimeoutSeconds = 20
	cfg.Scrape.RequestsPerSec = 2
	cfg.Scrape.Burst = 1
	cfg.Scrape.MaxInFlight = 4
	return cfg
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
