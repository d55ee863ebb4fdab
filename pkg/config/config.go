package config

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Environment variables recognized by every ragdev command. The LLM_* names
// match what the embeddings API clients of the production service use, so one
// .env file serves both.
const (
	EnvDatabaseURL = "RAGDEV_DATABASE_URL"
	EnvAPIURL      = "RAGDEV_API_URL"
	EnvLLMAPIURL   = "LLM_API_URL"
	EnvLLMAPIKey   = "LLM_API_KEY"
	EnvEmbedModel  = "LLM_EMBED_MODEL"
)

// RequiredEnv lists the variables that must be present for the tools to reach
// their collaborators. MissingEnv reports which of them are unset.
var RequiredEnv = []string{EnvDatabaseURL, EnvLLMAPIKey}

// Config holds application-wide configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Chat     ChatConfig     `mapstructure:"chat"`
}

// APIConfig locates the RAG service under test.
type APIConfig struct {
	BaseURL string `mapstructure:"baseURL"`
	TopK    int    `mapstructure:"topK"`
}

// DatabaseConfig locates the vector store backing the service.
type DatabaseConfig struct {
	URL   string `mapstructure:"url"`
	Table string `mapstructure:"table"`
}

// LLMConfig locates the embeddings API.
type LLMConfig struct {
	APIURL     string `mapstructure:"apiURL"`
	APIKey     string `mapstructure:"apiKey"`
	EmbedModel string `mapstructure:"embedModel"`
	Dimensions int    `mapstructure:"dimensions"`
}

// ChatConfig holds interactive-session settings.
type ChatConfig struct {
	MetricsAddr string `mapstructure:"metricsAddr"`
}

// Default returns the configuration the tools assume when neither a config
// file nor environment variables say otherwise. The service listens on :8000
// and embeds with text-embedding-3-small (1536 dimensions) into rag_chunks.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			TopK:    6,
		},
		Database: DatabaseConfig{
			Table: "rag_chunks",
		},
		LLM: LLMConfig{
			APIURL:     "https://api.openai.com",
			EmbedModel: "text-embedding-3-small",
			Dimensions: 1536,
		},
	}
}

// Load reads config from file or environment
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("ragdev")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config"))
		}
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("RAGDEV")

	def := Default()
	v.SetDefault("api.baseURL", def.API.BaseURL)
	v.SetDefault("api.topK", def.API.TopK)
	v.SetDefault("database.table", def.Database.Table)
	v.SetDefault("llm.apiURL", def.LLM.APIURL)
	v.SetDefault("llm.embedModel", def.LLM.EmbedModel)
	v.SetDefault("llm.dimensions", def.LLM.Dimensions)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		fmt.Println("Using config file:", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Well-known environment variables win over file values.
	cfg.Database.URL = cmp.Or(os.Getenv(EnvDatabaseURL), cfg.Database.URL)
	cfg.API.BaseURL = cmp.Or(os.Getenv(EnvAPIURL), cfg.API.BaseURL)
	cfg.LLM.APIURL = cmp.Or(os.Getenv(EnvLLMAPIURL), cfg.LLM.APIURL)
	cfg.LLM.APIKey = cmp.Or(os.Getenv(EnvLLMAPIKey), cfg.LLM.APIKey)
	cfg.LLM.EmbedModel = cmp.Or(os.Getenv(EnvEmbedModel), cfg.LLM.EmbedModel)

	return &cfg, nil
}

// MissingEnv returns the names in RequiredEnv that are unset or empty.
func MissingEnv() []string {
	var missing []string
	for _, name := range RequiredEnv {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
