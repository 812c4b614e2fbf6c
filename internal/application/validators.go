package application

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/go-taskgraph/internal/domain"
)

// stageNamePattern restricts stage names to identifier-safe characters so
// they can be referenced from other stages and external tooling.
var stageNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// registerCustomValidators installs the semantic validators used beyond
// plain struct tags.
func registerCustomValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("stagename", func(fl validator.FieldLevel) bool {
		return stageNamePattern.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("registering stagename validator: %w", err)
	}
	return nil
}

// validateDefinition performs the semantic checks struct tags cannot
// express: unique stage names and monitor references that resolve to an
// earlier stage in the chain.
func validateDefinition(def *TaskDefinition) error {
	seen := make(map[string]int, len(def.Stages))
	for i, sc := range def.Stages {
		if prev, dup := seen[sc.Name]; dup {
			return fmt.Errorf("%w: stage name %q used at positions %d and %d",
				domain.ErrInvalidConfiguration, sc.Name, prev, i)
		}
		seen[sc.Name] = i
	}

	for i, sc := range def.Stages {
		if sc.Monitors == "" {
			continue
		}
		pos, ok := seen[sc.Monitors]
		if !ok {
			return fmt.Errorf("%w: stage %q monitors unknown stage %q",
				domain.ErrInvalidConfiguration, sc.Name, sc.Monitors)
		}
		if pos == i {
			return fmt.Errorf("%w: stage %q cannot monitor itself",
				domain.ErrInvalidConfiguration, sc.Name)
		}
	}
	return nil
}
