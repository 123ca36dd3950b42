package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "polianalyzer"

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Sources  Sources  `yaml:"sources"`
	Analysis Analysis `yaml:"analysis"`
	LLM      LLM      `yaml:"llm"`
	Cache    Cache    `yaml:"cache"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

type Sources struct {
	Wikipedia WikipediaConfig `yaml:"wikipedia"`
	APIs      APIsConfig      `yaml:"apis"`
	Feeds     FeedsConfig     `yaml:"feeds"`
}

type WikipediaConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
}

type APIsConfig struct {
	NewsAPI NewsAPIConfig `yaml:"newsapi"`
}

type NewsAPIConfig struct {
	Enabled   bool   `yaml:"enabled"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
	PageSize  int    `yaml:"page_size"`
}

// FeedsConfig is the RSS news search used when NewsAPI has no key.
// SearchURL contains one %s for the query-escaped name.
type FeedsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	SearchURL string `yaml:"search_url"`
}

type Analysis struct {
	Strategy    string        `yaml:"strategy"`
	Timeout     time.Duration `yaml:"timeout"`
	LexiconPath string        `yaml:"lexicon_path"`
}

type LLM struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	OllamaURL   string  `yaml:"ollama_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type Cache struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ConfigDir returns the XDG config directory for polianalyzer.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", appName)
}

// DataDir returns the XDG data directory for polianalyzer.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", appName)
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/polianalyzer/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'polianalyzer init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded default config: %v", err))
	}
	return cfg
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Sources: Sources{
			Wikipedia: WikipediaConfig{
				Enabled:   true,
				BaseURL:   "https://en.wikipedia.org",
				UserAgent: "PoliticianAnalyzer/0.1 (https://github.com/TobiSchelling/PoliticianAnalyzer)",
			},
			APIs: APIsConfig{
				NewsAPI: NewsAPIConfig{
					Enabled:   true,
					APIKeyEnv: "NEWSAPI_KEY",
					BaseURL:   "https://newsapi.org/v2",
					PageSize:  5,
				},
			},
			Feeds: FeedsConfig{
				Enabled:   true,
				SearchURL: "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
			},
		},
		Analysis: Analysis{
			Strategy: "auto",
			Timeout:  60 * time.Second,
		},
		LLM: LLM{
			Provider:    "groq",
			Model:       "llama-3.1-8b-instant",
			OllamaURL:   "http://localhost:11434",
			APIKeyEnv:   "GROQ_API_KEY",
			MaxTokens:   4096,
			Temperature: 0.3,
		},
		Cache: Cache{
			Enabled: true,
			TTL:     6 * time.Hour,
		},
		Server:  Server{Host: "127.0.0.1", Port: 8000},
		Logging: Logging{Level: "INFO", Format: "console"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Analysis.Strategy) {
	case "heuristic", "generative", "auto":
	default:
		return fmt.Errorf("analysis.strategy must be heuristic, generative or auto, got %q", c.Analysis.Strategy)
	}
	if c.Sources.Feeds.Enabled && strings.Count(c.Sources.Feeds.SearchURL, "%s") != 1 {
		return fmt.Errorf("sources.feeds.search_url must contain exactly one %%s")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// DatabasePath returns the SQLite file inside the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.GetDataDir(), appName+".db")
}

// Credential reads the environment variable named env. Placeholder values
// such as "your_groq_api_key_here" count as unset.
func Credential(env string) string {
	if env == "" {
		return ""
	}
	v := strings.TrimSpace(os.Getenv(env))
	if strings.HasPrefix(strings.ToLower(v), "your_") {
		return ""
	}
	return v
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
