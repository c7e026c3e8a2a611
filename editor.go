package scorecard

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/goliatone/go-scorecard/pkg/activity"
	"github.com/google/uuid"
)

// Editor edits a widget settings object in place. The settings value may be a
// *Settings or a map[string]any tree owned by the host; it is never cloned.
//
// An Editor is not safe for concurrent use.
type Editor struct {
	settings  any
	cfg       editorConfig
	emitter   *activity.Emitter
	sessionID string

	configType      ConfigType
	newCardValue    string
	activeCardIndex int

	// order keeps card positions stable across projections. created holds
	// cards added through AddNewCard that may not have dependency keys yet.
	order   []string
	created map[string]struct{}
}

// NewEditor binds an editor to settings and seeds the local state from it.
func NewEditor(settings any, opts ...Option) *Editor {
	cfg := applyOptions(opts)
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}
	if cfg.evaluatorLogger == nil {
		cfg.evaluatorLogger = noopEvaluatorLogger{}
	}
	sessionID := cfg.sessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	e := &Editor{
		settings:   settings,
		cfg:        cfg,
		sessionID:  sessionID,
		configType: ParseConfigType(Get(settings, ConfigTypeKey, 0)),
		created:    map[string]struct{}{},
		emitter: activity.NewEmitter(cfg.activityHooks, activity.Config{
			Enabled: true,
			Channel: cfg.channel,
		}),
	}
	e.order = DecodeCards(e.dependencies()).Names()
	return e
}

// Settings returns the settings value the editor mutates.
func (e *Editor) Settings() any {
	return e.settings
}

// SessionID identifies this editing session in emitted events.
func (e *Editor) SessionID() string {
	return e.sessionID
}

// OnChange writes value at path, notifies the change handler and, when path
// is the configType discriminant, switches the editor mode. Writes whose
// parent is missing are dropped and reported to the logger; the handler is
// still invoked. The returned error only reports activity hook failures.
func (e *Editor) OnChange(ctx context.Context, path string, value any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	oldValue := Get(e.settings, path)

	var errs []error
	if !Set(e.settings, path, value) {
		trace := TracePath(e.settings, path)
		e.cfg.logger.Log(LogEvent{
			Level:   LogWarn,
			Message: "setting dropped: parent path missing",
			Path:    path,
			Trace:   &trace,
		})
		input := e.eventInput(path)
		input.NewValue = value
		input.Metadata = map[string]any{"missing": trace.Missing()}
		errs = append(errs, e.emitter.Emit(ctx, activity.BuildSettingDroppedEvent(input)))
	}

	if e.cfg.onChange != nil {
		e.cfg.onChange(path, value, oldValue, e.settings)
	}

	input := e.eventInput(path)
	input.OldValue = oldValue
	input.NewValue = value
	errs = append(errs, e.emitter.Emit(ctx, activity.BuildSettingChangedEvent(input)))

	if path == ConfigTypeKey {
		previous := e.configType
		e.configType = ParseConfigType(value)
		e.cfg.logger.Log(LogEvent{
			Level:   LogDebug,
			Message: "mode changed to " + e.configType.String(),
			Path:    path,
		})
		mode := e.eventInput(path)
		mode.OldValue = previous.String()
		mode.NewValue = e.configType.String()
		errs = append(errs, e.emitter.Emit(ctx, activity.BuildModeChangedEvent(mode)))
	}

	return errors.Join(errs...)
}

// ConfigType returns the current editing mode discriminant.
func (e *Editor) ConfigType() ConfigType {
	return e.configType
}

// Mode returns the current editing mode. CardsMode carries a fresh card
// projection.
func (e *Editor) Mode() Mode {
	switch e.configType {
	case ConfigArray:
		return ArrayMode{}
	case ConfigCards:
		return CardsMode{Cards: e.Cards(), ActiveIndex: e.activeCardIndex}
	default:
		return SingleMode{}
	}
}

// Cards projects the dependency map into the card collection. Known cards
// keep their position; cards seen for the first time are appended in key
// order and keep that position in later projections.
func (e *Editor) Cards() CardCollection {
	decoded := DecodeCards(e.dependencies())

	var out CardCollection
	for _, name := range e.order {
		if card, ok := decoded.Card(name); ok {
			out.put(name, card)
			continue
		}
		if _, ok := e.created[name]; ok {
			out.put(name, NewCard())
		}
	}
	for _, named := range decoded.List() {
		if !out.Has(named.Name) {
			out.put(named.Name, named.Card)
			e.order = append(e.order, named.Name)
		}
	}
	return out
}

// NewCardValue returns the pending card name.
func (e *Editor) NewCardValue() string {
	return e.newCardValue
}

// SetNewCardValue updates the pending card name.
func (e *Editor) SetNewCardValue(value string) {
	e.newCardValue = value
}

// AddNewCard inserts an empty card named after the pending card name, selects
// its tab and clears the pending name. Re-adding an existing name selects the
// last tab and keeps the card data. The dependency map is untouched
// until one of the card fields is edited. It returns the new active index.
func (e *Editor) AddNewCard(ctx context.Context) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	name := e.newCardValue
	existed := e.Cards().Has(name)
	if !containsString(e.order, name) {
		e.order = append(e.order, name)
	}
	e.created[name] = struct{}{}

	cards := e.Cards()
	if existed {
		e.activeCardIndex = cards.Len() - 1
	} else {
		e.activeCardIndex = cards.Index(name)
	}
	e.newCardValue = ""

	e.cfg.logger.Log(LogEvent{
		Level:   LogDebug,
		Message: "card created: " + name,
		Path:    joinPath(DependenciesKey, CardKeyPrefix+name),
	})
	input := e.eventInput("")
	input.CardName = name
	return e.activeCardIndex, e.emitter.Emit(ctx, activity.BuildCardCreatedEvent(input))
}

// SelectCard sets the active tab index.
func (e *Editor) SelectCard(index int) {
	e.activeCardIndex = index
}

// ActiveCardIndex returns the active tab index.
func (e *Editor) ActiveCardIndex() int {
	return e.activeCardIndex
}

// Schema describes the current form with the configured schema generator.
func (e *Editor) Schema() (SchemaDocument, error) {
	generator := e.cfg.schemaGenerator
	if generator == nil {
		generator = DefaultSchemaGenerator()
	}
	return generator.Generate(e.Form())
}

func (e *Editor) widgetID() string {
	return stringify(Get(e.settings, IDKey, ""))
}

func (e *Editor) eventInput(path string) activity.ChangeEventInput {
	return activity.ChangeEventInput{
		ActorID:    e.cfg.actorID,
		TenantID:   e.cfg.tenantID,
		SessionID:  e.sessionID,
		WidgetID:   e.widgetID(),
		Channel:    e.cfg.channel,
		Path:       path,
		Mode:       e.configType.String(),
		OccurredAt: time.Now(),
	}
}

func (e *Editor) dependencies() map[string]any {
	return asStringMap(Get(e.settings, DependenciesKey))
}

// asStringMap returns value as a map[string]any. Maps keyed by strings with
// other value types are copied; anything else yields nil.
func asStringMap(value any) map[string]any {
	if value == nil {
		return nil
	}
	if m, ok := value.(map[string]any); ok {
		return m
	}
	rv, ok := indirect(reflect.ValueOf(value))
	if !ok || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
