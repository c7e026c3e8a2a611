package activity

import (
	"strings"
	"time"
)

// Verbs and object types emitted by the scorecard settings editor.
const (
	VerbSettingChanged = "scorecard.setting.changed"
	VerbSettingDropped = "scorecard.setting.dropped"
	VerbModeChanged    = "scorecard.mode.changed"
	VerbCardCreated    = "scorecard.card.created"

	ObjectSettings = "scorecard.settings"
	ObjectCard     = "scorecard.card"
)

// ChangeEventInput describes the common fields of settings editor events.
type ChangeEventInput struct {
	ActorID    string
	TenantID   string
	SessionID  string
	WidgetID   string
	Channel    string
	Path       string
	OldValue   any
	NewValue   any
	CardName   string
	Mode       string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildSettingChangedEvent describes a value written into the settings.
func BuildSettingChangedEvent(input ChangeEventInput) Event {
	return buildChangeEvent(VerbSettingChanged, ObjectSettings, input)
}

// BuildSettingDroppedEvent describes a write that could not reach its parent
// container and was discarded.
func BuildSettingDroppedEvent(input ChangeEventInput) Event {
	return buildChangeEvent(VerbSettingDropped, ObjectSettings, input)
}

// BuildModeChangedEvent describes a configType switch.
func BuildModeChangedEvent(input ChangeEventInput) Event {
	return buildChangeEvent(VerbModeChanged, ObjectSettings, input)
}

// BuildCardCreatedEvent describes a new dynamic card.
func BuildCardCreatedEvent(input ChangeEventInput) Event {
	return buildChangeEvent(VerbCardCreated, ObjectCard, input)
}

func buildChangeEvent(verb, objectType string, input ChangeEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if input.Path != "" {
		set("path", input.Path)
	}
	if input.WidgetID != "" {
		set("widget_id", input.WidgetID)
	}
	if input.CardName != "" || objectType == ObjectCard {
		set("card", input.CardName)
	}
	if input.Mode != "" {
		set("mode", input.Mode)
	}
	if input.OldValue != nil {
		set("old_value", input.OldValue)
	}
	if input.NewValue != nil {
		set("new_value", input.NewValue)
	}

	objectID := strings.TrimSpace(input.WidgetID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.SessionID)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.Path)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		SessionID:  strings.TrimSpace(input.SessionID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
