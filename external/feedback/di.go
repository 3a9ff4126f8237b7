package feedback

import (
	"github.com/samber/do/v2"
	"github.com/speakband/speakband/internal/config"
	"github.com/speakband/speakband/internal/feedback"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (feedback.Generator, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewOpenAIGenerator(OpenAIConfig{
			APIKey:  c.OpenAIAPIKey,
			BaseURL: c.OpenAIBaseURL,
			Model:   c.FeedbackModel,
		}), nil
	})
}
