package scorecard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-scorecard/pkg/activity"
)

// Settings is the configuration record of a Scorecard widget. Editors mutate
// it in place; the host owns its lifecycle.
type Settings struct {
	ID           string         `json:"id" yaml:"id"`
	Size         Size           `json:"size" yaml:"size"`
	ConfigType   ConfigType     `json:"configType" yaml:"configType"`
	Dependencies map[string]any `json:"dependencies" yaml:"dependencies"`
}

// Size holds the widget grid dimensions.
type Size struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// ConfigType selects which dependency fields the editor shows.
type ConfigType int

const (
	// ConfigSingle edits one value with its decorations.
	ConfigSingle ConfigType = iota
	// ConfigArray edits a list of values.
	ConfigArray
	// ConfigCards edits a dynamic set of named cards.
	ConfigCards
)

// ConfigTypes lists the selectable modes in display order.
var ConfigTypes = []ConfigType{ConfigSingle, ConfigArray, ConfigCards}

func (c ConfigType) String() string {
	switch c {
	case ConfigSingle:
		return "Single Value"
	case ConfigArray:
		return "Value Array"
	case ConfigCards:
		return "Dynamic Cards"
	default:
		return fmt.Sprintf("ConfigType(%d)", int(c))
	}
}

// ParseConfigType converts a raw discriminant into a ConfigType. Integers,
// floats and numeric strings are accepted; anything else, including values
// outside the known range, resolves to ConfigSingle.
func ParseConfigType(value any) ConfigType {
	var n int64
	switch typed := value.(type) {
	case ConfigType:
		n = int64(typed)
	case int:
		n = int64(typed)
	case int8:
		n = int64(typed)
	case int16:
		n = int64(typed)
	case int32:
		n = int64(typed)
	case int64:
		n = typed
	case uint:
		n = int64(typed)
	case uint8:
		n = int64(typed)
	case uint16:
		n = int64(typed)
	case uint32:
		n = int64(typed)
	case uint64:
		if typed > math.MaxInt64 {
			return ConfigSingle
		}
		n = int64(typed)
	case float32:
		n = int64(typed)
	case float64:
		n = int64(typed)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		if err != nil {
			return ConfigSingle
		}
		n = int64(parsed)
	default:
		return ConfigSingle
	}
	switch ConfigType(n) {
	case ConfigArray:
		return ConfigArray
	case ConfigCards:
		return ConfigCards
	default:
		return ConfigSingle
	}
}

// ChangeFunc observes a settings mutation after it has been applied.
type ChangeFunc func(path string, newValue, oldValue any, settings any)

// Response stores a typed result produced by an evaluator.
type Response[T any] struct {
	Value T
}

// RuleContext carries inputs needed when evaluating a binding expression.
type RuleContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	Path     string
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) withDefaults() RuleContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

func (ctx RuleContext) pathLabel() string {
	if ctx.Path != "" {
		return ctx.Path
	}
	return "unknown"
}

// Evaluator executes binding expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

// Option configures an Editor.
type Option func(*editorConfig)

type editorConfig struct {
	onChange        ChangeFunc
	logger          Logger
	evaluator       Evaluator
	programCache    ProgramCache
	functions       *FunctionRegistry
	evaluatorLogger EvaluatorLogger
	schemaGenerator SchemaGenerator
	activityHooks   activity.Hooks
	channel         string
	actorID         string
	tenantID        string
	sessionID       string
}

func applyOptions(opts []Option) editorConfig {
	cfg := editorConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithChangeHandler registers the observer invoked after every mutation.
func WithChangeHandler(fn ChangeFunc) Option {
	return func(cfg *editorConfig) {
		cfg.onChange = fn
	}
}

// WithEvaluator configures the evaluator used to resolve "=" bindings.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *editorConfig) {
		cfg.evaluator = e
	}
}

// WithSchemaGenerator configures a custom form schema generator.
func WithSchemaGenerator(generator SchemaGenerator) Option {
	return func(cfg *editorConfig) {
		cfg.schemaGenerator = generator
	}
}

// WithActor tags emitted activity events with the editing actor and tenant.
func WithActor(actorID, tenantID string) Option {
	return func(cfg *editorConfig) {
		cfg.actorID = strings.TrimSpace(actorID)
		cfg.tenantID = strings.TrimSpace(tenantID)
	}
}

// WithSessionID overrides the generated editor session identifier.
func WithSessionID(id string) Option {
	return func(cfg *editorConfig) {
		cfg.sessionID = strings.TrimSpace(id)
	}
}
