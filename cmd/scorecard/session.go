package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-scorecard"
	"github.com/goliatone/go-scorecard/internal/config"
	"github.com/goliatone/go-scorecard/pkg/activity"
	"github.com/goliatone/go-scorecard/pkg/state"
)

// session binds one settings file to an editor.
type session struct {
	ref      state.Ref
	resolver state.Resolver[map[string]any]
	meta     state.Meta
	settings map[string]any
	editor   *scorecard.Editor
}

func openSession(ctx context.Context, path string, extra ...scorecard.Option) (*session, error) {
	ref := state.Ref{Location: path}
	resolver := state.Resolver[map[string]any]{
		Store: state.NewFileStore[map[string]any](),
		Validate: func(settings map[string]any) error {
			_, err := scorecard.DecodeSettings("", settings)
			return err
		},
	}
	settings, meta, _, err := resolver.Resolve(ctx, ref, scorecard.DefaultSettings())
	if err != nil {
		return nil, err
	}

	opts, err := editorOptions(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	opts = append(opts, extra...)

	return &session{
		ref:      ref,
		resolver: resolver,
		meta:     meta,
		settings: settings,
		editor:   scorecard.NewEditor(settings, opts...),
	}, nil
}

// save writes the edited settings back unless the file changed on disk since
// it was opened.
func (s *session) save(ctx context.Context) error {
	_, meta, err := s.resolver.Mutate(ctx, s.ref, state.Meta{ETag: s.meta.ETag}, func(snapshot *map[string]any) error {
		*snapshot = s.settings
		return nil
	})
	if err != nil {
		return err
	}
	s.meta = meta
	return nil
}

func editorOptions(c config.Config, stderr io.Writer) ([]scorecard.Option, error) {
	opts := []scorecard.Option{
		scorecard.WithActor(c.Editor.ActorID, c.Editor.TenantID),
		scorecard.WithActivityChannel(c.Editor.Channel),
		scorecard.WithLogger(scorecard.LoggerFunc(func(event scorecard.LogEvent) {
			if event.Level < scorecard.LogWarn {
				return
			}
			fmt.Fprintf(stderr, "Warning: %s (path=%s)\n", event.Message, event.Path)
		})),
	}

	evaluator, err := buildEvaluator(c.Editor.Engine, c.Editor.JSTimeout)
	if err != nil {
		return nil, err
	}
	if evaluator != nil {
		opts = append(opts, scorecard.WithEvaluator(evaluator))
	} else {
		opts = append(opts, scorecard.WithProgramCache(scorecard.NewMemoryCache()))
	}

	if c.Editor.ActivityLog {
		opts = append(opts, scorecard.WithActivityHooks(activity.Hooks{
			activity.HookFunc(func(_ context.Context, event activity.Event) error {
				_, err := fmt.Fprintf(stderr, "activity: %s %s/%s %v\n", event.Verb, event.ObjectType, event.ObjectID, event.Metadata)
				return err
			}),
		}))
	}
	return opts, nil
}

// buildEvaluator returns nil for the default expr engine.
func buildEvaluator(engine string, jsTimeout time.Duration) (scorecard.Evaluator, error) {
	switch strings.ToLower(engine) {
	case "", config.EngineExpr:
		return nil, nil
	case config.EngineCEL:
		return scorecard.NewCELEvaluator(
			scorecard.CELWithFunctionRegistry(scorecard.DefaultFunctions()),
			scorecard.CELWithProgramCache(scorecard.NewMemoryCache()),
		), nil
	case config.EngineJS:
		if !scorecard.JSEvaluatorAvailable() {
			return nil, fmt.Errorf("js engine requires a build with -tags js_eval")
		}
		return scorecard.NewJSEvaluator(
			scorecard.JSWithFunctionRegistry(scorecard.DefaultFunctions()),
			scorecard.JSWithProgramCache(scorecard.NewMemoryCache()),
			scorecard.JSWithTimeout(jsTimeout),
		), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}

// parseValue reads raw as a YAML scalar so "4" becomes a number. Dependency
// values are bindings and stay strings.
func parseValue(path, raw string) any {
	if strings.HasPrefix(path, scorecard.DependenciesKey+".") {
		return raw
	}
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
		return raw
	}
	switch value.(type) {
	case map[string]any, []any:
		return raw
	}
	return value
}

func outputFormat(c config.Config) state.Format {
	if strings.EqualFold(c.Output.Format, config.FormatJSON) {
		return state.FormatJSON
	}
	return state.FormatYAML
}

// jsonTree round-trips value through encoding/json so YAML output keeps the
// JSON field names.
func jsonTree(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
