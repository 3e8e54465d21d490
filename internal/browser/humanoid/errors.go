package humanoid

import "errors"

var (
	// ErrTargetUnresolvable means the target element has no bounding box (missing, detached or not rendered).
	ErrTargetUnresolvable = errors.New("humanoid: target element has no bounding box")
	// ErrInstrumentation means an injected page operation failed to execute.
	ErrInstrumentation = errors.New("humanoid: page instrumentation failed")
	// ErrInvalidSteps is returned by the planners when asked for fewer than one step.
	ErrInvalidSteps = errors.New("humanoid: step count must be at least 1")
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("humanoid: invalid configuration")
)
