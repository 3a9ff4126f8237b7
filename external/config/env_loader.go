package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	internalconfig "github.com/speakband/speakband/internal/config"
)

type envConfig struct {
	Env                   string `env:"ENV" envDefault:"production"`
	Port                  int    `env:"PORT" envDefault:"8080"`
	DatabaseURL           string `env:"DATABASE_URL,required"`
	OpenAIAPIKey          string `env:"OPENAI_API_KEY,required"`
	OpenAIBaseURL         string `env:"OPENAI_BASE_URL"`
	TranscriptionModel    string `env:"TRANSCRIPTION_MODEL" envDefault:"whisper-1"`
	FeedbackModel         string `env:"FEEDBACK_MODEL" envDefault:"gpt-4"`
	PurchaseWebhookSecret string `env:"PURCHASE_WEBHOOK_SECRET"`
}

func Load() (*internalconfig.Config, error) {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                   raw.Env,
		Port:                  raw.Port,
		DatabaseURL:           raw.DatabaseURL,
		OpenAIAPIKey:          raw.OpenAIAPIKey,
		OpenAIBaseURL:         raw.OpenAIBaseURL,
		TranscriptionModel:    raw.TranscriptionModel,
		FeedbackModel:         raw.FeedbackModel,
		PurchaseWebhookSecret: raw.PurchaseWebhookSecret,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
