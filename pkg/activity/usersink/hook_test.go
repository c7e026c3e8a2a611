package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-scorecard/pkg/activity"
	"github.com/goliatone/go-scorecard/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	tenantID := uuid.New()

	event := activity.BuildSettingChangedEvent(activity.ChangeEventInput{
		ActorID:    actorID.String(),
		TenantID:   tenantID.String(),
		SessionID:  "session-7",
		WidgetID:   "kpi",
		Channel:    "scorecard",
		Path:       "dependencies.card_alpha_value",
		NewValue:   "5",
		OccurredAt: now,
	})

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID || record.UserID != actorID {
		t.Fatalf("expected actor %s got %s/%s", actorID, record.ActorID, record.UserID)
	}
	if record.TenantID != tenantID {
		t.Fatalf("expected tenant %s got %s", tenantID, record.TenantID)
	}
	if record.Verb != activity.VerbSettingChanged || record.ObjectType != activity.ObjectSettings || record.ObjectID != "kpi" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "scorecard" {
		t.Fatalf("expected channel scorecard got %q", record.Channel)
	}
	if !record.OccurredAt.Equal(now) {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["path"] != "dependencies.card_alpha_value" {
		t.Fatalf("expected metadata passthrough got %v", record.Data["path"])
	}
	if record.Data["session_id"] != "session-7" {
		t.Fatalf("expected session id got %v", record.Data["session_id"])
	}
}

func TestHookNotifySkipsInvalidEvents(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	if err := hook.Notify(context.Background(), activity.Event{}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookNotifyFiltersVerbs(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink, Verbs: []string{activity.VerbCardCreated}}

	_ = hook.Notify(context.Background(), activity.BuildSettingChangedEvent(activity.ChangeEventInput{WidgetID: "kpi"}))
	_ = hook.Notify(context.Background(), activity.BuildCardCreatedEvent(activity.ChangeEventInput{WidgetID: "kpi", CardName: "gamma"}))

	if len(sink.records) != 1 || sink.records[0].Verb != activity.VerbCardCreated {
		t.Fatalf("expected only card event forwarded, got %+v", sink.records)
	}
	if sink.records[0].ActorID != uuid.Nil {
		t.Fatalf("expected nil actor for missing id, got %s", sink.records[0].ActorID)
	}
}

func TestHookNotifyReturnsSinkError(t *testing.T) {
	boom := errors.New("sink down")
	hook := usersink.Hook{Sink: &recordingSink{err: boom}}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbModeChanged,
		ObjectType: activity.ObjectSettings,
		ObjectID:   "kpi",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}
