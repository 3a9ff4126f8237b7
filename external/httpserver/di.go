package httpserver

import (
	"github.com/samber/do/v2"
	"github.com/speakband/speakband/internal/config"
	"github.com/speakband/speakband/internal/credits"
	"github.com/speakband/speakband/internal/feedback"
	"github.com/speakband/speakband/internal/pipeline"
	"github.com/speakband/speakband/internal/repository"
	"github.com/speakband/speakband/internal/transcriber"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*pipeline.Pipeline, error) {
		repo := do.MustInvoke[repository.Repository](i)
		stt := do.MustInvoke[transcriber.Transcriber](i)
		gen := do.MustInvoke[feedback.Generator](i)
		return pipeline.New(repo, stt, gen), nil
	})

	do.Provide(injector, func(i do.Injector) (*credits.Service, error) {
		repo := do.MustInvoke[repository.Repository](i)
		return credits.NewService(repo), nil
	})

	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		p := do.MustInvoke[*pipeline.Pipeline](i)
		svc := do.MustInvoke[*credits.Service](i)
		return New(cfg, p, svc), nil
	})
}
