//go:build scorecard_debug

package scorecard

import (
	"log"
	"os"
)

var debugLog = log.New(os.Stderr, "scorecard: ", log.LstdFlags)

func defaultLogger() Logger {
	return LoggerFunc(func(event LogEvent) {
		if event.Trace != nil {
			if payload, err := event.Trace.ToJSON(); err == nil {
				debugLog.Printf("[%s] %s path=%s trace=%s", event.Level, event.Message, event.Path, payload)
				return
			}
		}
		if event.Err != nil {
			debugLog.Printf("[%s] %s path=%s err=%v", event.Level, event.Message, event.Path, event.Err)
			return
		}
		debugLog.Printf("[%s] %s path=%s", event.Level, event.Message, event.Path)
	})
}
