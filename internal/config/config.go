package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// Base URL the two corpus collections (posts.json, reports.json) are
	// fetched from on every request.
	CorpusBaseURL string `envconfig:"CORPUS_BASE_URL" required:"true"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel  string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	// Prompt-size budget. Tuned thresholds carried over from the site
	// builder; reasonable defaults, not load-bearing.
	DefaultTopK           int `envconfig:"DEFAULT_TOP_K" default:"8"`
	SummaryMaxChars       int `envconfig:"SUMMARY_MAX_CHARS" default:"900"`
	RemoteExtractMaxChars int `envconfig:"REMOTE_EXTRACT_MAX_CHARS" default:"1500"`
	AttachmentMaxChars    int `envconfig:"ATTACHMENT_MAX_CHARS" default:"2000"`
	MaxAttachments        int `envconfig:"MAX_ATTACHMENTS" default:"4"`
	PageFetchMaxChars     int `envconfig:"PAGE_FETCH_MAX_CHARS" default:"8000"`

	// Remote enrichment fan-out. The per-fetch timeout and worker bound
	// keep total request latency finite.
	RemoteConcurrency  int           `envconfig:"REMOTE_CONCURRENCY" default:"4"`
	RemoteFetchTimeout time.Duration `envconfig:"REMOTE_FETCH_TIMEOUT" default:"8s"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("LEXWATCH", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}
