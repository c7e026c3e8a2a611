package scorecard

import (
	"fmt"

	"github.com/goliatone/go-scorecard/internal/hydrate"
	"github.com/goliatone/go-scorecard/layering"
)

var defaultSettings = map[string]any{
	"size": map[string]any{
		"w": DefaultWidth,
		"h": DefaultHeight,
	},
	ConfigTypeKey:   int(ConfigSingle),
	DependenciesKey: map[string]any{},
}

// DefaultSettings returns a fresh settings tree for a new widget.
func DefaultSettings() map[string]any {
	return layering.Clone(defaultSettings)
}

// DecodeSettings lays payload over DefaultSettings and decodes the result into
// a Settings value. Keys absent from payload, or null in it, take the default.
func DecodeSettings(widgetID string, payload map[string]any) (*Settings, error) {
	merged := layering.MergeLayers(payload, DefaultSettings())

	decoder := hydrate.NewDecoder[Settings](
		hydrate.WithPreHook[Settings](normalizeConfigType),
		hydrate.WithPostHook[Settings](func(ctx hydrate.Context, settings *Settings) error {
			if settings.ID == "" {
				settings.ID = ctx.WidgetID
			}
			if settings.Dependencies == nil {
				settings.Dependencies = map[string]any{}
			}
			return nil
		}),
	)
	settings, err := decoder.Decode(hydrate.Context{WidgetID: widgetID}, merged)
	if err != nil {
		return nil, fmt.Errorf("scorecard: decode settings: %w", err)
	}
	return &settings, nil
}

// normalizeConfigType accepts any discriminant representation, such as the
// string "2" coming from a select field, and stores the integer form.
func normalizeConfigType(_ hydrate.Context, payload map[string]any) (map[string]any, error) {
	if raw, ok := payload[ConfigTypeKey]; ok {
		payload[ConfigTypeKey] = int(ParseConfigType(raw))
	}
	return payload, nil
}
