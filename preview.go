package scorecard

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"
)

// Binding prefixes recognised in dependency values.
const (
	// DataRefPrefix marks a dotted path into the preview data, e.g. "::kpi.total".
	DataRefPrefix = "::"
	// ExpressionPrefix marks an expression run by the editor's evaluator.
	ExpressionPrefix = "="
)

// View is the resolved content of the widget for the current mode. The
// concrete types are SingleView, ArrayView and CardsView.
type View interface {
	ConfigType() ConfigType
	isView()
}

// SingleView is the resolved single value with its decorations.
type SingleView struct {
	Card Card `json:"card" yaml:"card"`
}

// ArrayView is the resolved value list.
type ArrayView struct {
	Values []any `json:"values" yaml:"values"`
}

// CardsView lists every card with its fields resolved.
type CardsView struct {
	Cards []NamedCard `json:"cards" yaml:"cards"`
}

func (SingleView) ConfigType() ConfigType { return ConfigSingle }
func (ArrayView) ConfigType() ConfigType  { return ConfigArray }
func (CardsView) ConfigType() ConfigType  { return ConfigCards }

func (SingleView) isView() {}
func (ArrayView) isView()  {}
func (CardsView) isView()  {}

// Preview resolves the dependencies of the current mode against data. Fields
// whose binding fails are left empty and their errors joined into the
// returned error, so a partial view is always available.
func (e *Editor) Preview(ctx context.Context, data map[string]any) (View, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deps := e.dependencies()
	var errs []error

	switch mode := e.Mode().(type) {
	case ArrayMode:
		path := joinPath(DependenciesKey, ArrayValueFields[0])
		values, err := e.resolveValues(path, deps[ArrayValueFields[0]], data)
		if err != nil {
			errs = append(errs, err)
		}
		return ArrayView{Values: values}, errors.Join(errs...)
	case CardsMode:
		view := CardsView{Cards: make([]NamedCard, 0, mode.Cards.Len())}
		for _, named := range mode.Cards.List() {
			if err := ctx.Err(); err != nil {
				return view, err
			}
			resolved := NewCard()
			for _, field := range CardFields {
				raw, _ := named.Card.Field(field)
				value, err := e.resolveBinding(CardPath(named.Name, field), named.Name, field, raw, data)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				resolved.SetField(field, stringify(value))
			}
			view.Cards = append(view.Cards, NamedCard{Name: named.Name, Card: resolved})
		}
		return view, errors.Join(errs...)
	default:
		card := NewCard()
		for _, field := range SingleValueFields {
			value, err := e.resolveBinding(joinPath(DependenciesKey, field), "", field, deps[field], data)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			card.SetField(field, stringify(value))
		}
		return SingleView{Card: card}, errors.Join(errs...)
	}
}

// resolveBinding turns one dependency value into its display value.
func (e *Editor) resolveBinding(path, card, field string, raw any, data map[string]any) (any, error) {
	text, ok := raw.(string)
	if !ok {
		return raw, nil
	}
	switch {
	case strings.HasPrefix(text, DataRefPrefix):
		return Get(data, strings.TrimSpace(strings.TrimPrefix(text, DataRefPrefix))), nil
	case strings.HasPrefix(text, ExpressionPrefix):
		expr := strings.TrimSpace(strings.TrimPrefix(text, ExpressionPrefix))
		resp, err := e.Evaluate(RuleContext{
			Snapshot: data,
			Path:     path,
			Args:     map[string]any{"card": card, "field": field},
		}, expr)
		if err != nil {
			return nil, err
		}
		return resp.Value, nil
	default:
		return text, nil
	}
}

// resolveValues resolves the array mode value. A binding may yield a slice or
// a scalar; literal slices have each element resolved.
func (e *Editor) resolveValues(path string, raw any, data map[string]any) ([]any, error) {
	if raw == nil {
		return []any{}, nil
	}
	if _, ok := raw.(string); ok {
		value, err := e.resolveBinding(path, "", ArrayValueFields[0], raw, data)
		if err != nil {
			return []any{}, err
		}
		return toSlice(value), nil
	}

	items := toSlice(raw)
	out := make([]any, 0, len(items))
	var errs []error
	for i, item := range items {
		value, err := e.resolveBinding(joinPath(path, strconv.Itoa(i)), "", ArrayValueFields[0], item, data)
		if err != nil {
			errs = append(errs, err)
			out = append(out, nil)
			continue
		}
		out = append(out, value)
	}
	return out, errors.Join(errs...)
}

func toSlice(value any) []any {
	if value == nil {
		return []any{}
	}
	if items, ok := value.([]any); ok {
		return items
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{value}
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, rv.Index(i).Interface())
	}
	return out
}
