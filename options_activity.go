package scorecard

import (
	"strings"

	"github.com/goliatone/go-scorecard/pkg/activity"
)

// WithActivityHooks attaches activity hooks notified on every settings change.
// Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := activity.CloneHooks(hooks)
	return func(cfg *editorConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityChannel overrides the channel stamped on emitted events.
func WithActivityChannel(channel string) Option {
	return func(cfg *editorConfig) {
		cfg.channel = strings.TrimSpace(channel)
	}
}

// ActivityHooks returns a copy of the hooks configured on the editor.
func (e *Editor) ActivityHooks() activity.Hooks {
	if e == nil {
		return nil
	}
	return activity.CloneHooks(e.cfg.activityHooks)
}
