package scorecard

import "strconv"

// FieldKind tells a renderer which input to draw for a field.
type FieldKind string

const (
	// FieldText is a plain text input.
	FieldText FieldKind = "text"
	// FieldSelect picks one of Field.Choices.
	FieldSelect FieldKind = "select"
	// FieldDependency is a text input whose value may be a binding.
	FieldDependency FieldKind = "dependency"
)

// NewCardFieldID identifies the input holding the pending card name. It has
// no settings path; renderers route it to Editor.SetNewCardValue.
const NewCardFieldID = "newCardValue"

// Choice is one selectable option of a select field.
type Choice struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Field is a labelled input bound to a settings path. Value holds the current
// value or the default when the path is absent.
type Field struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	Path        string    `json:"path,omitempty"`
	Kind        FieldKind `json:"kind"`
	Placeholder string    `json:"placeholder,omitempty"`
	Value       any       `json:"value"`
	Choices     []Choice  `json:"choices,omitempty"`
}

// Tab is one labelled page of a tab container.
type Tab struct {
	Label  string  `json:"label"`
	Fields []Field `json:"fields"`
}

// Tabs is the tab container contract: the pages and which one is active.
type Tabs struct {
	Active int   `json:"active"`
	Items  []Tab `json:"items"`
}

// Form describes everything a renderer needs to draw the editor for the
// current mode.
type Form struct {
	ConfigType   ConfigType `json:"configType"`
	Fields       []Field    `json:"fields"`
	Dependencies []Field    `json:"dependencies,omitempty"`
	NewCard      *Field     `json:"newCard,omitempty"`
	Tabs         *Tabs      `json:"tabs,omitempty"`
}

// AllFields returns every field of the form in render order, including the
// fields of every tab.
func (f Form) AllFields() []Field {
	out := make([]Field, 0, len(f.Fields)+len(f.Dependencies))
	out = append(out, f.Fields...)
	out = append(out, f.Dependencies...)
	if f.NewCard != nil {
		out = append(out, *f.NewCard)
	}
	if f.Tabs != nil {
		for _, tab := range f.Tabs.Items {
			out = append(out, tab.Fields...)
		}
	}
	return out
}

// Field looks up a field by id.
func (f Form) Field(id string) (Field, bool) {
	for _, field := range f.AllFields() {
		if field.ID == id {
			return field, true
		}
	}
	return Field{}, false
}

// Form settings paths.
const (
	IDKey           = "id"
	SizeWidthPath   = "size.w"
	SizeHeightPath  = "size.h"
	ConfigTypeKey   = "configType"
	DependenciesKey = "dependencies"
)

// Default grid size used when the settings carry none.
const (
	DefaultWidth  = 4
	DefaultHeight = 3
)

var sizeChoices = func() []Choice {
	out := make([]Choice, 0, 6)
	for i := 1; i <= 6; i++ {
		out = append(out, Choice{Label: strconv.Itoa(i), Value: i})
	}
	return out
}()

func configTypeChoices() []Choice {
	out := make([]Choice, 0, len(ConfigTypes))
	for _, ct := range ConfigTypes {
		out = append(out, Choice{Label: ct.String(), Value: int(ct)})
	}
	return out
}

// Form builds the field description for the current mode.
func (e *Editor) Form() Form {
	form := Form{
		ConfigType: e.configType,
		Fields: []Field{
			{
				ID:          "id",
				Label:       "Id",
				Path:        IDKey,
				Kind:        FieldText,
				Placeholder: "Fill in an id for the component",
				Value:       Get(e.settings, IDKey, ""),
			},
			{
				ID:      "width",
				Label:   "Width",
				Path:    SizeWidthPath,
				Kind:    FieldSelect,
				Value:   Get(e.settings, SizeWidthPath, DefaultWidth),
				Choices: sizeChoices,
			},
			{
				ID:      "height",
				Label:   "Height",
				Path:    SizeHeightPath,
				Kind:    FieldSelect,
				Value:   Get(e.settings, SizeHeightPath, DefaultHeight),
				Choices: sizeChoices,
			},
			{
				ID:      ConfigTypeKey,
				Label:   "Type",
				Path:    ConfigTypeKey,
				Kind:    FieldSelect,
				Value:   int(e.configType),
				Choices: configTypeChoices(),
			},
		},
	}

	switch mode := e.Mode().(type) {
	case SingleMode:
		form.Dependencies = e.dependencyFields(SingleValueFields, FieldDependency)
	case ArrayMode:
		form.Dependencies = e.dependencyFields(ArrayValueFields, FieldText)
	case CardsMode:
		form.NewCard = &Field{
			ID:    NewCardFieldID,
			Label: "New Card Name",
			Kind:  FieldText,
			Value: e.newCardValue,
		}
		tabs := &Tabs{Active: mode.ActiveIndex}
		for _, named := range mode.Cards.List() {
			tabs.Items = append(tabs.Items, cardTab(named))
		}
		form.Tabs = tabs
	}
	return form
}

func (e *Editor) dependencyFields(names []string, kind FieldKind) []Field {
	out := make([]Field, 0, len(names))
	for _, name := range names {
		path := joinPath(DependenciesKey, name)
		out = append(out, Field{
			ID:    name,
			Label: name,
			Path:  path,
			Kind:  kind,
			Value: Get(e.settings, path, ""),
		})
	}
	return out
}

func cardTab(named NamedCard) Tab {
	tab := Tab{Label: named.Name, Fields: make([]Field, 0, len(CardFields))}
	for _, field := range CardFields {
		value, _ := named.Card.Field(field)
		tab.Fields = append(tab.Fields, Field{
			ID:    named.Name + CardKeySeparator + field,
			Label: field,
			Path:  CardPath(named.Name, field),
			Kind:  FieldDependency,
			Value: value,
		})
	}
	return tab
}
