package scorecard

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// CardKeyPrefix marks dependency keys that belong to a dynamic card.
	CardKeyPrefix = "card_"
	// CardKeySeparator splits a compound key into prefix, card name and field.
	CardKeySeparator = "_"
)

// Card field names, in the order the editor renders them.
const (
	CardFieldValue      = "value"
	CardFieldHeading    = "heading"
	CardFieldColor      = "color"
	CardFieldIcon       = "icon"
	CardFieldSubvalue   = "subvalue"
	CardFieldSubheading = "subheading"
	CardFieldClassName  = "className"
	CardFieldOnClick    = "onClick"
)

// CardFields lists every field a Card carries.
var CardFields = []string{
	CardFieldValue,
	CardFieldHeading,
	CardFieldColor,
	CardFieldIcon,
	CardFieldSubvalue,
	CardFieldSubheading,
	CardFieldClassName,
	CardFieldOnClick,
}

// Card is one entry of the Dynamic Cards mode. All fields default to "".
type Card struct {
	Value      string `json:"value" yaml:"value"`
	Heading    string `json:"heading" yaml:"heading"`
	Color      string `json:"color" yaml:"color"`
	Icon       string `json:"icon" yaml:"icon"`
	Subvalue   string `json:"subvalue" yaml:"subvalue"`
	Subheading string `json:"subheading" yaml:"subheading"`
	ClassName  string `json:"className" yaml:"className"`
	OnClick    string `json:"onClick" yaml:"onClick"`
}

// NewCard returns a card with every field empty.
func NewCard() Card {
	return Card{}
}

// IsCardField reports whether name is one of CardFields.
func IsCardField(name string) bool {
	for _, field := range CardFields {
		if field == name {
			return true
		}
	}
	return false
}

// Field returns the value of the named field and whether the name is known.
func (c Card) Field(name string) (string, bool) {
	switch name {
	case CardFieldValue:
		return c.Value, true
	case CardFieldHeading:
		return c.Heading, true
	case CardFieldColor:
		return c.Color, true
	case CardFieldIcon:
		return c.Icon, true
	case CardFieldSubvalue:
		return c.Subvalue, true
	case CardFieldSubheading:
		return c.Subheading, true
	case CardFieldClassName:
		return c.ClassName, true
	case CardFieldOnClick:
		return c.OnClick, true
	default:
		return "", false
	}
}

// SetField assigns the named field. Unknown names are ignored and reported.
func (c *Card) SetField(name, value string) bool {
	switch name {
	case CardFieldValue:
		c.Value = value
	case CardFieldHeading:
		c.Heading = value
	case CardFieldColor:
		c.Color = value
	case CardFieldIcon:
		c.Icon = value
	case CardFieldSubvalue:
		c.Subvalue = value
	case CardFieldSubheading:
		c.Subheading = value
	case CardFieldClassName:
		c.ClassName = value
	case CardFieldOnClick:
		c.OnClick = value
	default:
		return false
	}
	return true
}

// CardKey builds the compound dependency key for a card field.
func CardKey(name, field string) string {
	return CardKeyPrefix + name + CardKeySeparator + field
}

// CardPath builds the dotted settings path for a card field.
func CardPath(name, field string) string {
	return joinPath(DependenciesKey, CardKey(name, field))
}

// ParseCardKey splits a compound key into card name and field. Only the first
// two separators after the prefix count: "card_a_b_c" yields ("a", "b") and
// the trailing segment is dropped.
func ParseCardKey(key string) (name, field string, ok bool) {
	if !strings.HasPrefix(key, CardKeyPrefix) {
		return "", "", false
	}
	parts := strings.Split(key, CardKeySeparator)
	name = parts[1]
	if len(parts) > 2 {
		field = parts[2]
	}
	return name, field, true
}

// NamedCard pairs a card with its name.
type NamedCard struct {
	Name string `json:"name" yaml:"name"`
	Card Card   `json:"card" yaml:"card"`
}

// CardCollection is an ordered set of cards keyed by name.
type CardCollection struct {
	names []string
	cards map[string]Card
}

// Len returns the number of cards.
func (c CardCollection) Len() int {
	return len(c.names)
}

// Names returns the card names in order.
func (c CardCollection) Names() []string {
	return append([]string(nil), c.names...)
}

// Card returns the named card.
func (c CardCollection) Card(name string) (Card, bool) {
	card, ok := c.cards[name]
	return card, ok
}

// Has reports whether name is present.
func (c CardCollection) Has(name string) bool {
	_, ok := c.cards[name]
	return ok
}

// Index returns the position of name, or -1.
func (c CardCollection) Index(name string) int {
	for i, existing := range c.names {
		if existing == name {
			return i
		}
	}
	return -1
}

// List returns the cards in order.
func (c CardCollection) List() []NamedCard {
	out := make([]NamedCard, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, NamedCard{Name: name, Card: c.cards[name]})
	}
	return out
}

// put stores card under name, keeping the original position when the name
// already exists.
func (c *CardCollection) put(name string, card Card) {
	if c.cards == nil {
		c.cards = map[string]Card{}
	}
	if _, exists := c.cards[name]; !exists {
		c.names = append(c.names, name)
	}
	c.cards[name] = card
}

// DecodeCards rebuilds the card collection from a flat dependency map. Keys
// without the card prefix are ignored. Keys are visited in sorted order so
// the resulting card order is deterministic.
func DecodeCards(dependencies map[string]any) CardCollection {
	var out CardCollection
	if len(dependencies) == 0 {
		return out
	}

	keys := make([]string, 0, len(dependencies))
	for key := range dependencies {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		name, field, ok := ParseCardKey(key)
		if !ok {
			continue
		}
		card, exists := out.Card(name)
		if !exists {
			card = NewCard()
		}
		card.SetField(field, stringify(dependencies[key]))
		out.put(name, card)
	}
	return out
}

func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}
