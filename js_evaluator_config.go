package scorecard

import "time"

// DefaultJSTimeout bounds a single JS binding run.
const DefaultJSTimeout = time.Second

// JSEvaluatorOption configures the JS evaluator.
type JSEvaluatorOption func(*jsSettings)

type jsSettings struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

func newJSSettings(opts []JSEvaluatorOption) jsSettings {
	settings := jsSettings{timeout: DefaultJSTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}
	return settings
}

// JSWithProgramCache reuses compiled bindings across previews.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(s *jsSettings) {
		s.cache = cache
	}
}

// JSWithFunctionRegistry exposes registry functions as globals and through
// call(name, ...args). The registry is cloned.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(s *jsSettings) {
		if registry != nil {
			s.registry = registry.Clone()
		}
	}
}

// JSWithTimeout interrupts a binding that runs longer than d. Zero or a
// negative d disables the limit.
func JSWithTimeout(d time.Duration) JSEvaluatorOption {
	return func(s *jsSettings) {
		s.timeout = d
	}
}
