package hydrate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestDecoderFromFixtures(t *testing.T) {
	fx := loadFixture(t, "hydrate_settings.json")

	for _, tc := range fx.Cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			decoder := NewDecoder[widgetSettings](buildOptions(tc)...)

			ctx := Context{
				WidgetID: tc.WidgetID,
				Source:   tc.Source,
			}

			result, err := decoder.Decode(ctx, tc.Input)

			if tc.ExpectErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got nil", tc.ExpectErr)
				}
				if !strings.Contains(err.Error(), tc.ExpectErr) {
					t.Fatalf("expected error containing %q, got %v", tc.ExpectErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}

			if !reflect.DeepEqual(tc.Expect, result) {
				t.Fatalf("decoded settings mismatch:\nwant: %#v\n got: %#v", tc.Expect, result)
			}
		})
	}
}

func TestDecodeNilPayload(t *testing.T) {
	_, err := NewDecoder[widgetSettings]().Decode(Context{}, nil)
	if err == nil || !strings.Contains(err.Error(), "<unknown>") {
		t.Fatalf("expected nil payload error naming unknown widget, got %v", err)
	}
}

func TestDecodeDoesNotMutateInput(t *testing.T) {
	input := map[string]any{"size": "4x3"}
	decoder := NewDecoder[widgetSettings](WithPreHook[widgetSettings](sizeShorthandPreHook))

	if _, err := decoder.Decode(Context{WidgetID: "kpi"}, input); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if input["size"] != "4x3" {
		t.Fatalf("expected caller payload untouched, got %v", input["size"])
	}
}

func buildOptions(tc fixtureCase) []DecoderOption[widgetSettings] {
	options := []DecoderOption[widgetSettings]{}

	for _, optName := range tc.Options {
		switch optName {
		case "use_number":
			options = append(options, WithUseNumber[widgetSettings]())
		case "disallow_unknown":
			options = append(options, WithDisallowUnknownFields[widgetSettings]())
		}
	}

	for _, hookName := range tc.PreHooks {
		switch hookName {
		case "size_shorthand":
			options = append(options, WithPreHook[widgetSettings](sizeShorthandPreHook))
		}
	}

	for _, hookName := range tc.PostHooks {
		switch hookName {
		case "default_id":
			options = append(options, WithPostHook[widgetSettings](defaultIDPostHook))
		}
	}

	if tc.CustomDecoder == "settings_string" {
		options = append(options, WithCustomDecoder[widgetSettings](settingsStringDecoder))
	}

	return options
}

func sizeShorthandPreHook(_ Context, payload map[string]any) (map[string]any, error) {
	value, ok := payload["size"].(string)
	if !ok || value == "" {
		return payload, nil
	}

	parts := strings.Split(value, "x")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid size shorthand %q", value)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, err
	}

	payload["size"] = map[string]any{"w": w, "h": h}
	return payload, nil
}

func defaultIDPostHook(ctx Context, settings *widgetSettings) error {
	if settings == nil {
		return errors.New("settings is nil")
	}
	if settings.ID == "" {
		settings.ID = ctx.WidgetID
	}
	return nil
}

func settingsStringDecoder(ctx Context, payload map[string]any) (widgetSettings, error) {
	var zero widgetSettings
	raw, ok := payload["settings"].(string)
	if !ok || raw == "" {
		return zero, fmt.Errorf("missing settings string for widget %q", ctx.WidgetID)
	}
	var out widgetSettings
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return zero, err
	}
	return out, nil
}

type fixture struct {
	Description string        `json:"description"`
	Cases       []fixtureCase `json:"cases"`
}

type fixtureCase struct {
	Name          string         `json:"name"`
	WidgetID      string         `json:"widgetId"`
	Source        string         `json:"source"`
	Input         map[string]any `json:"input"`
	Expect        widgetSettings `json:"expect"`
	ExpectErr     string         `json:"expectErr"`
	PreHooks      []string       `json:"preHooks"`
	PostHooks     []string       `json:"postHooks"`
	Options       []string       `json:"options"`
	CustomDecoder string         `json:"customDecoder"`
}

type widgetSettings struct {
	ID           string         `json:"id"`
	Size         widgetSize     `json:"size"`
	ConfigType   int            `json:"configType"`
	Dependencies map[string]any `json:"dependencies"`
}

type widgetSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

func loadFixture(t *testing.T, name string) fixture {
	t.Helper()
	path := filepath.Join("testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read hydrate fixture %q: %v", name, err)
	}
	var fx fixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal hydrate fixture %q: %v", name, err)
	}
	return fx
}
