package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/do"

	"github.com/mhpenta/imagestudio"
	"github.com/mhpenta/imagestudio/internal/config"
	"github.com/mhpenta/imagestudio/internal/log"
	"github.com/mhpenta/imagestudio/internal/web"
	"github.com/mhpenta/imagestudio/provider/gemini"
)

// managerService closes the providers when the injector shuts down.
type managerService struct {
	*imagestudio.Manager
}

func (m managerService) Shutdown() error {
	return m.Close()
}

func setup(ctx context.Context, cfg *config.Config) *do.Injector {
	logger := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	})

	do.ProvideValue[*config.Config](injector, cfg)
	do.ProvideValue[*slog.Logger](injector, logger)

	do.Provide[*gemini.Generator](injector, func(i *do.Injector) (*gemini.Generator, error) {
		return gemini.NewWithAPIKey(ctx, do.MustInvoke[*config.Config](i).APIKey)
	})
	do.Provide[managerService](injector, func(i *do.Injector) (managerService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		manager := imagestudio.NewManager(do.MustInvoke[*gemini.Generator](i),
			imagestudio.WithLogger(do.MustInvoke[*slog.Logger](i)),
			imagestudio.WithCreateModel(imagestudio.Model(cfg.CreateModel)),
			imagestudio.WithEditModel(imagestudio.Model(cfg.EditModel)),
		)
		return managerService{manager}, nil
	})
	do.Provide[*imagestudio.Studio](injector, func(i *do.Injector) (*imagestudio.Studio, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return imagestudio.NewStudio(do.MustInvoke[managerService](i).Manager,
			imagestudio.WithStudioLogger(do.MustInvoke[*slog.Logger](i)),
			imagestudio.WithGenerationTimeout(cfg.Timeout),
			imagestudio.WithWaitOnRateLimit(cfg.WaitOnRateLimit),
		), nil
	})
	do.Provide[*imagestudio.Session](injector, func(i *do.Injector) (*imagestudio.Session, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return imagestudio.NewSession(do.MustInvoke[*imagestudio.Studio](i),
			imagestudio.WithMaxImageBytes(cfg.MaxUploadBytes()),
		), nil
	})
	do.Provide[*web.Server](injector, func(i *do.Injector) (*web.Server, error) {
		return web.New(do.MustInvoke[*imagestudio.Session](i),
			web.WithLogger(do.MustInvoke[*slog.Logger](i)),
			web.WithBaseContext(ctx),
		), nil
	})

	return injector
}
