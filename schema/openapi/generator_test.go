package openapi

import (
	"sync"
	"testing"

	scorecard "github.com/goliatone/go-scorecard"
)

func TestNewGeneratorOptions(t *testing.T) {
	custom := NewGenerator(
		WithOpenAPIVersion("3.1.0"),
		WithTitle("Custom Service", "2.0.0"),
		WithDescription("custom schema"),
		WithEndpoint("/settings", "PUT"),
		WithOperationID("updateSettings"),
		WithSummary("Update settings"),
		WithContentType("application/x-www-form-urlencoded"),
		WithResponse("201", "Created"),
	)

	internal, ok := custom.(generator)
	if !ok {
		t.Fatalf("expected generator implementation, got %T", custom)
	}

	if got := internal.config.openAPIVersion; got != "3.1.0" {
		t.Fatalf("expected openapi version 3.1.0, got %q", got)
	}
	if got := internal.config.info.Title; got != "Custom Service" {
		t.Fatalf("expected info title Custom Service, got %q", got)
	}
	if got := internal.config.info.Version; got != "2.0.0" {
		t.Fatalf("expected info version 2.0.0, got %q", got)
	}
	if got := internal.config.info.Description; got != "custom schema" {
		t.Fatalf("expected info description custom schema, got %q", got)
	}
	if got := internal.config.operation.Path; got != "/settings" {
		t.Fatalf("expected operation path /settings, got %q", got)
	}
	if got := internal.config.operation.Method; got != "put" {
		t.Fatalf("expected method put, got %q", got)
	}
	if got := internal.config.operation.OperationID; got != "updateSettings" {
		t.Fatalf("expected operation id updateSettings, got %q", got)
	}
	if got := internal.config.operation.Summary; got != "Update settings" {
		t.Fatalf("expected operation summary Update settings, got %q", got)
	}
	if got := internal.config.contentType; got != "application/x-www-form-urlencoded" {
		t.Fatalf("expected content type application/x-www-form-urlencoded, got %q", got)
	}
	if got := internal.config.responses["201"].Description; got != "Created" {
		t.Fatalf("expected response description Created, got %q", got)
	}
	if _, exists := internal.config.responses["204"]; !exists {
		t.Fatalf("expected default 204 response to remain configured")
	}
}

func TestWithWidgetDerivesEndpoint(t *testing.T) {
	t.Parallel()

	doc, err := NewGenerator(WithWidget("line-chart"), WithSummary("")).Generate(map[string]any{"id": "sales"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	document := doc.Document.(map[string]any)
	if title := document["info"].(map[string]any)["title"]; title != "Line Chart Settings" {
		t.Fatalf("expected derived title, got %v", title)
	}
	operation := document["paths"].(map[string]any)["/widgets/line-chart/settings"].(map[string]any)["put"].(map[string]any)
	if operation["operationId"] != "updateLineChartSettings" {
		t.Fatalf("expected derived operationId, got %v", operation["operationId"])
	}
	if _, ok := operation["summary"]; ok {
		t.Fatalf("expected summary removed, got %v", operation["summary"])
	}
	responses := operation["responses"].(map[string]any)
	if _, ok := responses["422"]; !ok {
		t.Fatalf("expected default 422 response, got %v", responses)
	}
}

func TestGeneratorFormSchema(t *testing.T) {
	t.Parallel()

	settings := &scorecard.Settings{
		ID:           "kpi",
		Size:         scorecard.Size{W: 2, H: 3},
		Dependencies: map[string]any{"value": "::kpi.total"},
	}
	editor := scorecard.NewEditor(settings)

	doc, err := NewGenerator().Generate(editor.Form())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if doc.Format != scorecard.SchemaFormatOpenAPI {
		t.Fatalf("expected format %q, got %q", scorecard.SchemaFormatOpenAPI, doc.Format)
	}

	document, ok := doc.Document.(map[string]any)
	if !ok {
		t.Fatalf("expected map document, got %T", doc.Document)
	}
	if err := validateDocument(document); err != nil {
		t.Fatalf("document failed validation: %v", err)
	}

	root := requestSchema(t, document, "/widgets/scorecard/settings", "put")
	width := property(t, root, "size", "w")
	if width["type"] != "integer" {
		t.Fatalf("expected integer width, got %v", width["type"])
	}
	if width["default"] != 2 {
		t.Fatalf("expected width default 2, got %v", width["default"])
	}
	if enum, _ := width["enum"].([]any); len(enum) != 6 {
		t.Fatalf("expected 6 width choices, got %v", width["enum"])
	}

	configType := property(t, root, "configType")
	labels, _ := configType["x-enum-labels"].([]string)
	if len(labels) != 3 || labels[2] != "Dynamic Cards" {
		t.Fatalf("unexpected configType labels %v", configType["x-enum-labels"])
	}

	value := property(t, root, "dependencies", "value")
	if value["default"] != "::kpi.total" {
		t.Fatalf("expected binding default, got %v", value["default"])
	}
	formgen, _ := value["x-formgen"].(map[string]any)
	if formgen["widget"] != "dependency" {
		t.Fatalf("expected dependency widget, got %v", formgen["widget"])
	}
}

func TestGeneratorCardsFormSchema(t *testing.T) {
	t.Parallel()

	settings := map[string]any{
		"configType": 2,
		"dependencies": map[string]any{
			"card_alpha_value": "5",
		},
	}
	editor := scorecard.NewEditor(settings)

	doc, err := NewGenerator().Generate(editor.Form())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	root := requestSchema(t, doc.Document.(map[string]any), "/widgets/scorecard/settings", "put")
	heading := property(t, root, "dependencies", "card_alpha_heading")
	formgen, _ := heading["x-formgen"].(map[string]any)
	if formgen["id"] != "alpha_heading" {
		t.Fatalf("expected card field id alpha_heading, got %v", formgen["id"])
	}
	deps := property(t, root, "dependencies")
	if _, exists := deps["properties"].(map[string]any)["values"]; exists {
		t.Fatalf("cards form should not describe array values")
	}
}

func TestGeneratorRootComponent(t *testing.T) {
	t.Parallel()

	doc, err := NewGenerator(WithRootComponent("ScorecardSettings")).Generate(map[string]any{"id": "kpi"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	document := doc.Document.(map[string]any)
	body := requestSchema(t, document, "/widgets/scorecard/settings", "put")
	if body["$ref"] != "#/components/schemas/ScorecardSettings" {
		t.Fatalf("expected component reference, got %v", body)
	}
	components := document["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := components["ScorecardSettings"]; !ok {
		t.Fatalf("expected component to be published, got %v", components)
	}
}

func TestGeneratorReflectsSettingsStruct(t *testing.T) {
	t.Parallel()

	doc, err := NewGenerator().Generate(scorecard.Settings{
		ID:           "kpi",
		Dependencies: map[string]any{"values": []any{1, 2}},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	root := requestSchema(t, doc.Document.(map[string]any), "/widgets/scorecard/settings", "put")
	if property(t, root, "configType")["type"] != "integer" {
		t.Fatalf("expected integer configType")
	}
	if property(t, root, "size", "h")["type"] != "integer" {
		t.Fatalf("expected integer size.h")
	}
	values := property(t, root, "dependencies", "values")
	if values["type"] != "array" {
		t.Fatalf("expected array values, got %v", values["type"])
	}
}

func TestEditorSchemaUsesOpenAPIOption(t *testing.T) {
	t.Parallel()

	editor := scorecard.NewEditor(&scorecard.Settings{Dependencies: map[string]any{}}, Option(WithTitle("Widgets", "2.0.0")))
	doc, err := editor.Schema()
	if err != nil {
		t.Fatalf("Schema returned error: %v", err)
	}
	if doc.Format != scorecard.SchemaFormatOpenAPI {
		t.Fatalf("expected openapi format, got %q", doc.Format)
	}
	info := doc.Document.(map[string]any)["info"].(map[string]any)
	if info["title"] != "Widgets" || info["version"] != "2.0.0" {
		t.Fatalf("unexpected info %v", info)
	}
}

func TestGeneratorNil(t *testing.T) {
	t.Parallel()

	generator := NewGenerator()

	doc, err := generator.Generate(nil)
	if err != nil {
		t.Fatalf("Generate(nil) returned error: %v", err)
	}
	if doc.Format != scorecard.SchemaFormatOpenAPI {
		t.Fatalf("expected format %q, got %q", scorecard.SchemaFormatOpenAPI, doc.Format)
	}
	schema, ok := doc.Document.(map[string]any)
	if !ok {
		t.Fatalf("expected map document, got %T", doc.Document)
	}
	if err := validateDocument(schema); err != nil {
		t.Fatalf("nil snapshot produced invalid document: %v", err)
	}
}

func TestValidateDocumentRejectsMissingInfo(t *testing.T) {
	t.Parallel()

	err := validateDocument(map[string]any{"openapi": "3.0.3"})
	if err == nil {
		t.Fatalf("expected missing info error")
	}
}

func TestGeneratorConcurrentAccess(t *testing.T) {
	t.Parallel()

	generator := NewGenerator()
	input := map[string]any{
		"dependencies": map[string]any{
			"card_alpha_value": "5",
			"value":            "::kpi",
		},
	}

	const goroutines = 16
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			doc, err := generator.Generate(input)
			if err != nil {
				t.Errorf("Generate returned error: %v", err)
				return
			}
			if doc.Document == nil {
				t.Errorf("expected document payload")
			}
		}()
	}
	wg.Wait()
}

func requestSchema(t *testing.T, document map[string]any, path, method string) map[string]any {
	t.Helper()

	paths, _ := document["paths"].(map[string]any)
	item, _ := paths[path].(map[string]any)
	operation, _ := item[method].(map[string]any)
	if operation == nil {
		t.Fatalf("missing operation %s %s in %v", method, path, paths)
	}
	body := operation["requestBody"].(map[string]any)
	content := body["content"].(map[string]any)
	media := content["application/json"].(map[string]any)
	return media["schema"].(map[string]any)
}

func property(t *testing.T, schema map[string]any, segments ...string) map[string]any {
	t.Helper()

	current := schema
	for _, segment := range segments {
		properties, _ := current["properties"].(map[string]any)
		next, ok := properties[segment].(map[string]any)
		if !ok {
			t.Fatalf("missing property %q in %v", segment, current)
		}
		current = next
	}
	return current
}
