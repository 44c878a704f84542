// Package pipeline provides step registration and preset workflow building.
package pipeline

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ucsb-rds/dryad-curator/internal/curation"
)

// Registry holds registered step factories.
// Step factories create Step instances, allowing for dependency injection.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
}

// StepFactory is a function that creates a Step.
// It receives dependencies (like clients, config) as parameters.
type StepFactory func(deps *Dependencies) (Step, error)

// Dependencies holds the dependencies that can be injected into steps.
type Dependencies struct {
	// Locator and Engine are built over the Jira client by the caller.
	// Steps that only read the email do not need them.
	Locator *curation.Locator
	Engine  *curation.Engine

	Logger *zap.Logger
}

// Log returns the configured logger, or a no-op logger.
func (d *Dependencies) Log() *zap.Logger {
	if d == nil || d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// NewRegistry creates a new step registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
	}
}

// Register adds a step factory to the registry.
func (r *Registry) Register(name string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get retrieves a step factory by name.
func (r *Registry) Get(name string) (StepFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[name]
	return factory, ok
}

// BuildFromNames creates a pipeline from a list of step names.
func (r *Registry) BuildFromNames(names []string, deps *Dependencies) (*Pipeline, error) {
	var steps []Step
	for _, name := range names {
		factory, ok := r.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown step: %s", name)
		}
		step, err := factory(deps)
		if err != nil {
			return nil, fmt.Errorf("failed to create step '%s': %w", name, err)
		}
		steps = append(steps, step)
	}
	return New(steps...), nil
}

// Presets defines the built-in workflow presets.
var Presets = map[string][]string{
	// dryad-email: reconcile one email against the curation issues
	"dryad-email": {
		"classify",
		"extract",
		"locate",
		"dispose",
	},

	// parse-only: classify and extract without touching the tracker
	"parse-only": {
		"classify",
		"extract",
	},

	// locate-only: report the matching issue without changing it
	"locate-only": {
		"classify",
		"extract",
		"locate",
	},
}

// DefaultWorkflow is used when neither steps nor a known workflow is configured.
const DefaultWorkflow = "dryad-email"

// GetPreset returns the step names for a preset workflow.
func GetPreset(name string) ([]string, bool) {
	steps, ok := Presets[name]
	return steps, ok
}

// ResolveSteps determines the steps to use based on config.
// Priority: explicit steps > workflow preset > default
func ResolveSteps(explicitSteps []string, workflow string) []string {
	if len(explicitSteps) > 0 {
		return explicitSteps
	}
	if workflow != "" {
		if preset, ok := GetPreset(workflow); ok {
			return preset
		}
	}
	return Presets[DefaultWorkflow]
}
