package usersink

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-scorecard/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook forwards scorecard editor events to a go-users ActivitySink so setting
// changes land in the user activity feed.
type Hook struct {
	Sink usertypes.ActivitySink
	// Verbs limits forwarding to the listed verbs. Empty forwards everything.
	Verbs []string
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if !normalized.Valid() || !h.accepts(normalized.Verb) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	actor := parseUUID(normalized.ActorID)
	record := usertypes.ActivityRecord{
		ActorID:    actor,
		UserID:     actor,
		TenantID:   parseUUID(normalized.TenantID),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       recordData(normalized),
		OccurredAt: normalized.OccurredAt,
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}

	return h.Sink.Log(ctx, record)
}

func (h Hook) accepts(verb string) bool {
	if len(h.Verbs) == 0 {
		return true
	}
	for _, allowed := range h.Verbs {
		if strings.TrimSpace(allowed) == verb {
			return true
		}
	}
	return false
}

func recordData(event activity.Event) map[string]any {
	var data map[string]any
	if len(event.Metadata) > 0 {
		data = make(map[string]any, len(event.Metadata)+1)
		for key, value := range event.Metadata {
			data[key] = value
		}
	}
	if event.SessionID != "" {
		if data == nil {
			data = map[string]any{}
		}
		data["session_id"] = event.SessionID
	}
	return data
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
