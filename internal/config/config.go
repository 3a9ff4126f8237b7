package config

import "fmt"

type Config struct {
	Env                   string
	Port                  int
	DatabaseURL           string
	OpenAIAPIKey          string
	OpenAIBaseURL         string
	TranscriptionModel    string
	FeedbackModel         string
	PurchaseWebhookSecret string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be a valid port number, got %d", c.Port)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "OPENAI_API_KEY", value: c.OpenAIAPIKey},
		{name: "TRANSCRIPTION_MODEL", value: c.TranscriptionModel},
		{name: "FEEDBACK_MODEL", value: c.FeedbackModel},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
