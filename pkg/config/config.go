package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	ModelSettings struct {
		Temperature     float64 `yaml:"temperature"`
		NSFWTemperature float64 `yaml:"nsfw_temperature"`
		TopP            float64 `yaml:"top_p"`
		MaxTokens       int     `yaml:"max_tokens"`
		TimeoutSeconds  int     `yaml:"timeout_seconds"`
	} `yaml:"model_settings"`
	Relationship struct {
		// Level thresholds are tuning constants, overridable per deployment.
		// Must be ascending with exactly 11 entries (levels 0-10).
		Thresholds     []int `yaml:"thresholds"`
		StateTTLDays   int   `yaml:"state_ttl_days"`
		MilestoneBonus int   `yaml:"milestone_bonus"`
	} `yaml:"relationship"`
	Memory struct {
		MaxFacts    int `yaml:"max_facts"`
		FactTTLDays int `yaml:"fact_ttl_days"`
	} `yaml:"memory"`
	Intent struct {
		CacheSize int `yaml:"cache_size"`
	} `yaml:"intent"`
}

func LoadConfig(path string) (*Config, error) {
	config := &Config{}
	config.applyDefaults()

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(file, config); err != nil {
		return nil, err
	}
	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.ModelSettings.Temperature == 0 {
		c.ModelSettings.Temperature = 0.9
	}
	if c.ModelSettings.NSFWTemperature == 0 {
		c.ModelSettings.NSFWTemperature = 0.85
	}
	if c.ModelSettings.TopP == 0 {
		c.ModelSettings.TopP = 1
	}
	if c.ModelSettings.MaxTokens == 0 {
		c.ModelSettings.MaxTokens = 512
	}
	if c.ModelSettings.TimeoutSeconds == 0 {
		c.ModelSettings.TimeoutSeconds = 30
	}
	if len(c.Relationship.Thresholds) == 0 {
		c.Relationship.Thresholds = []int{0, 10, 25, 50, 80, 120, 170, 230, 300, 400, 500}
	}
	if c.Relationship.StateTTLDays == 0 {
		c.Relationship.StateTTLDays = 30
	}
	if c.Relationship.MilestoneBonus == 0 {
		c.Relationship.MilestoneBonus = 5
	}
	if c.Memory.MaxFacts == 0 {
		c.Memory.MaxFacts = 100
	}
	if c.Memory.FactTTLDays == 0 {
		c.Memory.FactTTLDays = 30
	}
	if c.Intent.CacheSize == 0 {
		c.Intent.CacheSize = 1000
	}
}
