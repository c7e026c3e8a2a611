package openapi

import (
	"strings"
	"unicode"
)

// DefaultWidgetType names the widget whose settings endpoint is described
// when no WithWidget option is given.
const DefaultWidgetType = "scorecard"

type generatorConfig struct {
	openAPIVersion string
	info           openapiInfo
	operation      operationConfig
	contentType    string
	responses      map[string]responseConfig
	rootComponent  string
}

type openapiInfo struct {
	Title       string
	Version     string
	Description string
}

type operationConfig struct {
	Path        string
	Method      string
	OperationID string
	Summary     string
}

type responseConfig struct {
	Description string
}

func defaultGeneratorConfig() generatorConfig {
	cfg := generatorConfig{
		openAPIVersion: "3.0.3",
		info:           openapiInfo{Version: "1.0.0"},
		operation:      operationConfig{Method: "put"},
		contentType:    "application/json",
		responses: map[string]responseConfig{
			"204": {Description: "Settings saved"},
			"422": {Description: "Settings rejected"},
		},
	}
	applyWidget(&cfg, DefaultWidgetType)
	return cfg
}

// applyWidget points the document at the settings endpoint of widget.
func applyWidget(cfg *generatorConfig, widget string) {
	title := exportedName(widget)
	cfg.info.Title = title + " Settings"
	cfg.operation.Path = "/widgets/" + widget + "/settings"
	cfg.operation.OperationID = "update" + strings.ReplaceAll(title, " ", "") + "Settings"
	cfg.operation.Summary = "Replace the " + strings.ToLower(title) + " widget settings"
}

func exportedName(widget string) string {
	words := strings.FieldsFunc(widget, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// GeneratorOption configures the OpenAPI generator.
type GeneratorOption func(*generatorConfig)

// WithWidget describes the settings endpoint of another widget type, e.g.
// "line-chart" gives PUT /widgets/line-chart/settings. Options applied later
// still override the derived title and operation.
func WithWidget(widget string) GeneratorOption {
	return func(cfg *generatorConfig) {
		widget = strings.TrimSpace(widget)
		if widget == "" {
			return
		}
		applyWidget(cfg, widget)
	}
}

// WithOpenAPIVersion overrides the OpenAPI version string (default: 3.0.3).
func WithOpenAPIVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if version != "" {
			cfg.openAPIVersion = version
		}
	}
}

// WithTitle sets the info title and document version. Empty strings keep the
// current values.
func WithTitle(title, version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title != "" {
			cfg.info.Title = title
		}
		if version != "" {
			cfg.info.Version = version
		}
	}
}

// WithDescription sets info.description.
func WithDescription(description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.info.Description = description
	}
}

// WithEndpoint overrides the settings path and method.
func WithEndpoint(path, method string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if path != "" {
			cfg.operation.Path = path
		}
		if method != "" {
			cfg.operation.Method = strings.ToLower(method)
		}
	}
}

// WithOperationID overrides the operationId.
func WithOperationID(id string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if id != "" {
			cfg.operation.OperationID = id
		}
	}
}

// WithSummary overrides the operation summary. An empty summary removes it.
func WithSummary(summary string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.operation.Summary = summary
	}
}

// WithContentType sets the request body media type.
func WithContentType(contentType string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if contentType != "" {
			cfg.contentType = contentType
		}
	}
}

// WithResponse adds or replaces the response for status.
func WithResponse(status, description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if status == "" {
			return
		}
		if cfg.responses == nil {
			cfg.responses = map[string]responseConfig{}
		}
		cfg.responses[status] = responseConfig{Description: description}
	}
}

// WithRootComponent publishes the settings schema under components.schemas
// and references it from the request body.
func WithRootComponent(name string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.rootComponent = name
	}
}
