// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-19

package steps

import (
	"github.com/ucsb-rds/dryad-curator/internal/core/pipeline"
)

// RegisterAll registers all built-in steps with the registry.
func RegisterAll(r *pipeline.Registry) {
	r.Register("classify", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewClassifier(deps), nil
	})

	r.Register("extract", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		return NewExtractor(deps), nil
	})

	r.Register("locate", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		step, err := NewLocator(deps)
		if err != nil {
			return nil, err
		}
		return step, nil
	})

	r.Register("dispose", func(deps *pipeline.Dependencies) (pipeline.Step, error) {
		step, err := NewDisposer(deps)
		if err != nil {
			return nil, err
		}
		return step, nil
	})
}
