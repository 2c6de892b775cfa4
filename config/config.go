package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"port"`
	AIEndpoint     string        `mapstructure:"ai_endpoint"`
	Model          string        `mapstructure:"model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	OpenAIAPIKey   string        `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKeys  []string      `mapstructure:"gemini_api_keys"`
	UploadDir      string        `mapstructure:"upload_dir"`
	TopK           int           `mapstructure:"top_k"`
	MaxChunkSize   int           `mapstructure:"max_chunk_size"`
	OverlapSize    int           `mapstructure:"overlap_size"`
	SessionTTL     time.Duration `mapstructure:"session_ttl"`
	MongoURI       string        `mapstructure:"MONGODB_URI"`
	// "memory" or "weaviate"
	VectorStore         string              `mapstructure:"vector_store"`
	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
}

type WeaviateStoreConfig struct {
	Host   string `mapstructure:"host"`
	APIKey string `mapstructure:"WEAVIATE_APIKEY"` // Changed to match env var
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set up Viper to read from config file
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Set up Viper to read from environment variables
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("model", "gpt-3.5-turbo")
	v.SetDefault("embedding_model", "text-embedding-3-small")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("top_k", 4)
	v.SetDefault("max_chunk_size", 1000)
	v.SetDefault("overlap_size", 100)
	v.SetDefault("session_ttl", 24*time.Hour)
	v.SetDefault("vector_store", "memory")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Bind environment variables
	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.OverlapSize >= config.MaxChunkSize {
		return nil, fmt.Errorf("overlap_size (%d) must be smaller than max_chunk_size (%d)", config.OverlapSize, config.MaxChunkSize)
	}

	return &config, nil
}
