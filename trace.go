package scorecard

import (
	"encoding/json"
	"reflect"
)

// PathTrace captures how a dotted path was walked against a settings value.
// It is used to explain dropped writes.
type PathTrace struct {
	Path  string     `json:"path"`
	Steps []PathStep `json:"steps"`
}

// PathStep records one segment of the walk.
type PathStep struct {
	Segment string `json:"segment"`
	Path    string `json:"path"`
	Kind    string `json:"kind,omitempty"`
	Found   bool   `json:"found"`
}

// TracePath walks path against root the same way Get and Set do and records
// every segment until the first absent one.
func TracePath(root any, path string) PathTrace {
	trace := PathTrace{Path: path}
	current := reflect.ValueOf(root)
	prefix := ""
	for _, segment := range splitPath(path) {
		prefix = joinPath(prefix, segment)
		step := PathStep{Segment: segment, Path: prefix}
		if container, ok := indirect(current); ok {
			step.Kind = container.Kind().String()
		}
		next, ok := child(current, segment)
		step.Found = ok
		trace.Steps = append(trace.Steps, step)
		if !ok {
			break
		}
		current = next
	}
	return trace
}

// Complete reports whether every segment of the path resolved.
func (t PathTrace) Complete() bool {
	return len(t.Steps) == len(splitPath(t.Path)) && t.Missing() == ""
}

// Missing returns the prefix path of the first absent segment, or "" when the
// walk never stopped early.
func (t PathTrace) Missing() string {
	for _, step := range t.Steps {
		if !step.Found {
			return step.Path
		}
	}
	return ""
}

// Writable reports whether Set would be able to reach the parent of the final
// segment.
func (t PathTrace) Writable() bool {
	segments := len(splitPath(t.Path))
	if len(t.Steps) < segments-1 {
		return false
	}
	for _, step := range t.Steps[:segments-1] {
		if !step.Found {
			return false
		}
	}
	return true
}

// ToJSON serialises the trace for logging.
func (t PathTrace) ToJSON() ([]byte, error) {
	type alias PathTrace
	return json.Marshal(alias(t))
}

// PathTraceFromJSON deserialises a payload produced by ToJSON.
func PathTraceFromJSON(payload []byte) (PathTrace, error) {
	type alias PathTrace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return PathTrace{}, err
	}
	return PathTrace(trace), nil
}
