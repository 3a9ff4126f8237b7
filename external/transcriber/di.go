package transcriber

import (
	"github.com/samber/do/v2"
	"github.com/speakband/speakband/internal/config"
	"github.com/speakband/speakband/internal/transcriber"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (transcriber.Transcriber, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewWhisperTranscriber(WhisperConfig{
			APIKey:  c.OpenAIAPIKey,
			BaseURL: c.OpenAIBaseURL,
			Model:   c.TranscriptionModel,
		}), nil
	})
}
