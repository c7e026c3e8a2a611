package activity

import (
	"context"
	"testing"
)

func TestBuildSettingChangedEventIncludesMetadata(t *testing.T) {
	meta := map[string]any{"custom": "value"}
	input := ChangeEventInput{
		ActorID:   " actor ",
		TenantID:  " tenant ",
		SessionID: "session-1",
		WidgetID:  "kpi",
		Path:      "size.w",
		OldValue:  4,
		NewValue:  6,
		Metadata:  meta,
		Channel:   "scorecard",
	}

	event := BuildSettingChangedEvent(input)

	if event.Verb != VerbSettingChanged {
		t.Fatalf("expected verb %s got %s", VerbSettingChanged, event.Verb)
	}
	if event.ObjectType != ObjectSettings || event.ObjectID != "kpi" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.ActorID != "actor" || event.TenantID != "tenant" || event.SessionID != "session-1" {
		t.Fatalf("unexpected identity fields: %+v", event)
	}
	if event.Metadata["path"] != "size.w" || event.Metadata["widget_id"] != "kpi" {
		t.Fatalf("expected path metadata, got %+v", event.Metadata)
	}
	if event.Metadata["old_value"] != 4 || event.Metadata["new_value"] != 6 {
		t.Fatalf("expected old/new values, got %+v", event.Metadata)
	}
	if _, ok := meta["path"]; ok {
		t.Fatalf("expected input metadata untouched")
	}
}

func TestBuildChangeEventObjectIDFallbacks(t *testing.T) {
	if got := BuildSettingChangedEvent(ChangeEventInput{SessionID: "s"}).ObjectID; got != "s" {
		t.Fatalf("expected session fallback, got %q", got)
	}
	if got := BuildSettingDroppedEvent(ChangeEventInput{Path: "a.b"}).ObjectID; got != "a.b" {
		t.Fatalf("expected path fallback, got %q", got)
	}
	if got := BuildModeChangedEvent(ChangeEventInput{}).ObjectID; got != ObjectSettings {
		t.Fatalf("expected object type fallback, got %q", got)
	}
}

func TestBuildCardCreatedEventRecordsCardName(t *testing.T) {
	event := BuildCardCreatedEvent(ChangeEventInput{WidgetID: "kpi", CardName: "gamma"})
	if event.ObjectType != ObjectCard {
		t.Fatalf("expected card object type, got %s", event.ObjectType)
	}
	if event.Metadata["card"] != "gamma" {
		t.Fatalf("expected card metadata, got %+v", event.Metadata)
	}

	unnamed := BuildCardCreatedEvent(ChangeEventInput{WidgetID: "kpi"})
	if name, ok := unnamed.Metadata["card"]; !ok || name != "" {
		t.Fatalf("expected empty card name recorded, got %+v", unnamed.Metadata)
	}
}

func TestBuildEventsWorkWithHooks(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}

	event := BuildModeChangedEvent(ChangeEventInput{Path: "configType", Mode: "Dynamic Cards"})
	if err := hooks.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if verbs := capture.Verbs(); len(verbs) != 1 || verbs[0] != VerbModeChanged {
		t.Fatalf("expected mode event captured, got %v", verbs)
	}
}
