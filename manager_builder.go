package imagestudio

import (
	"log/slog"
)

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithLogger sets a structured logger for the manager.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithCreateModel sets the model used for text-to-image calls.
func WithCreateModel(model Model) ManagerOption {
	return func(m *Manager) {
		if model != "" {
			m.SetDefaultModel(OperationCreate, model)
		}
	}
}

// WithEditModel sets the model used for edit and compose calls.
func WithEditModel(model Model) ManagerOption {
	return func(m *Manager) {
		if model != "" {
			m.SetDefaultModel(OperationEdit, model)
			m.SetDefaultModel(OperationCompose, model)
		}
	}
}

// WithTokenEstimator replaces the estimator used for rate limiting.
func WithTokenEstimator(estimator TokenEstimator) ManagerOption {
	return func(m *Manager) {
		m.tokenEstimator = estimator
	}
}

// NewManager creates a Manager serving every model the provider reports.
//
// Example:
//
//	gen, err := gemini.NewWithAPIKey(ctx, apiKey)
//	if err != nil {
//	    return err
//	}
//	manager := imagestudio.NewManager(gen,
//	    imagestudio.WithLogger(slog.Default()),
//	    imagestudio.WithCreateModel(imagestudio.ModelImagen4),
//	)
func NewManager(defaultProvider ImageGenerator, opts ...ManagerOption) *Manager {
	m := New()

	models := defaultProvider.Models()
	for i := range models {
		info := &models[i]

		m.RegisterProvider(info.Provider, defaultProvider)
		m.RegisterModel(Model(info.Name),
			ModelMapping{
				Provider:        info.Provider,
				ActualModelName: info.APIModelName,
			},
			info)
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}
