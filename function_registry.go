package scorecard

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Function is a custom helper callable from binding expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry stores custom functions keyed by lower-cased name. It is
// safe for concurrent use so one registry can serve several editors.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]Function),
	}
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("scorecard: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("scorecard: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]Function)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("scorecard: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]Function, len(r.functions)),
	}
	for name, fn := range r.functions {
		clone.functions[name] = fn
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("scorecard: function registry is nil")
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("scorecard: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns registered function names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithFunctionRegistry exposes the registry's functions to bindings evaluated
// by the editor's default evaluator.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *editorConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers a single function for bindings. Duplicate names
// keep the first registration.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *editorConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}

// DefaultFunctions returns a registry with the helpers commonly used by
// scorecard bindings:
//
//	coalesce(a, b, ...)   first argument that is neither nil nor ""
//	percent(part, total)  part/total*100, 0 when total is 0
//	format(pattern, ...)  fmt.Sprintf
func DefaultFunctions() *FunctionRegistry {
	registry := NewFunctionRegistry()
	_ = registry.Register("coalesce", func(args ...any) (any, error) {
		for _, arg := range args {
			if arg == nil {
				continue
			}
			if s, ok := arg.(string); ok && s == "" {
				continue
			}
			return arg, nil
		}
		return nil, nil
	})
	_ = registry.Register("percent", func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("scorecard: percent expects 2 arguments, got %d", len(args))
		}
		part, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		total, err := toFloat(args[1])
		if err != nil {
			return nil, err
		}
		if total == 0 {
			return 0.0, nil
		}
		return part / total * 100, nil
	})
	_ = registry.Register("format", func(args ...any) (any, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("scorecard: format expects a pattern")
		}
		pattern, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("scorecard: format pattern must be a string, got %T", args[0])
		}
		return fmt.Sprintf(pattern, args[1:]...), nil
	})
	return registry
}

func toFloat(value any) (float64, error) {
	rv := reflect.ValueOf(value)
	if rv.IsValid() && isNumberKind(rv.Kind()) {
		return rv.Convert(reflect.TypeOf(float64(0))).Float(), nil
	}
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("scorecard: %q is not a number", s)
		}
		return f, nil
	}
	return 0, fmt.Errorf("scorecard: %T is not a number", value)
}
